package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/apperr"
	"github.com/minhpbb/kanban/internal/model"
	"github.com/minhpbb/kanban/internal/repository"
)

// defaultColumnNames seed every new board.
var defaultColumnNames = []string{"To Do", "In Progress", "Done"}

type BoardService struct {
	db      *gorm.DB
	boards  *repository.BoardRepository
	columns *repository.ColumnRepository
	access  *AccessService
}

func NewBoardService(
	db *gorm.DB,
	boards *repository.BoardRepository,
	columns *repository.ColumnRepository,
	access *AccessService,
) *BoardService {
	return &BoardService{db: db, boards: boards, columns: columns, access: access}
}

// CreateBoard creates a board with its default columns in one transaction.
// Owner or admin only.
func (s *BoardService) CreateBoard(ctx context.Context, projectID uint, name string, actorID uint) (*model.KanbanBoard, error) {
	if _, err := s.access.RequireProjectAdmin(ctx, projectID, actorID); err != nil {
		return nil, err
	}
	board := &model.KanbanBoard{
		ProjectID: projectID,
		Name:      name,
		IsActive:  true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.boards.CreateTx(tx, board); err != nil {
			return err
		}
		for i, columnName := range defaultColumnNames {
			column := &model.KanbanColumn{
				BoardID:  board.ID,
				Name:     columnName,
				Position: i,
				IsActive: true,
			}
			if err := s.columns.CreateTx(tx, column); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// ListBoards returns the project's active boards.
func (s *BoardService) ListBoards(ctx context.Context, projectID, userID uint) ([]model.KanbanBoard, error) {
	if _, err := s.access.RequireProject(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.boards.ListActiveByProject(ctx, projectID)
}

// ListColumns returns a board's active columns in position order.
func (s *BoardService) ListColumns(ctx context.Context, boardID, userID uint) ([]model.KanbanColumn, error) {
	board, err := s.requireBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireProject(ctx, board.ProjectID, userID); err != nil {
		return nil, err
	}
	return s.columns.ListActiveByBoard(ctx, boardID)
}

// AddColumn appends a column to the board. Owner or admin only.
func (s *BoardService) AddColumn(ctx context.Context, boardID uint, name string, actorID uint) (*model.KanbanColumn, error) {
	board, err := s.requireBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireProjectAdmin(ctx, board.ProjectID, actorID); err != nil {
		return nil, err
	}
	maxPosition, err := s.columns.GetMaxPosition(ctx, boardID)
	if err != nil {
		return nil, err
	}
	column := &model.KanbanColumn{
		BoardID:  boardID,
		Name:     name,
		Position: maxPosition + 1,
		IsActive: true,
	}
	if err := s.columns.Create(ctx, column); err != nil {
		return nil, err
	}
	return column, nil
}

// RenameColumn changes a column's name. Owner or admin only.
func (s *BoardService) RenameColumn(ctx context.Context, columnID uint, name string, actorID uint) (*model.KanbanColumn, error) {
	column, err := s.columns.GetByID(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if column == nil || !column.IsActive {
		return nil, apperr.NotFound("column not found")
	}
	board, err := s.requireBoard(ctx, column.BoardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireProjectAdmin(ctx, board.ProjectID, actorID); err != nil {
		return nil, err
	}
	column.Name = name
	if err := s.columns.Update(ctx, column); err != nil {
		return nil, err
	}
	return column, nil
}

// ReorderColumns assigns position = index for every listed column that
// belongs to the board, in one transaction. Foreign ids are skipped, same
// resync semantics as the task reorder. Owner or admin only.
func (s *BoardService) ReorderColumns(ctx context.Context, boardID uint, orderedColumnIDs []uint, actorID uint) error {
	board, err := s.requireBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if _, err := s.access.RequireProjectAdmin(ctx, board.ProjectID, actorID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedColumnIDs {
			if err := s.columns.UpdatePositionTx(tx, id, board.ID, i); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoardService) requireBoard(ctx context.Context, boardID uint) (*model.KanbanBoard, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil || !board.IsActive {
		return nil, apperr.NotFound("board not found")
	}
	return board, nil
}
