package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/apperr"
	"github.com/minhpbb/kanban/internal/model"
	"github.com/minhpbb/kanban/internal/repository"
)

type TaskService struct {
	db       *gorm.DB
	tasks    *repository.TaskRepository
	boards   *repository.BoardRepository
	columns  *repository.ColumnRepository
	access   *AccessService
	notifier *Notifier
}

func NewTaskService(
	db *gorm.DB,
	tasks *repository.TaskRepository,
	boards *repository.BoardRepository,
	columns *repository.ColumnRepository,
	access *AccessService,
	notifier *Notifier,
) *TaskService {
	return &TaskService{
		db:       db,
		tasks:    tasks,
		boards:   boards,
		columns:  columns,
		access:   access,
		notifier: notifier,
	}
}

type CreateTaskInput struct {
	ProjectID   uint
	BoardID     uint
	ColumnID    uint
	Title       string
	Description string
	Priority    string
	AssigneeID  *uint
	DueDate     *time.Time
}

// UpdateTaskInput carries a partial merge. Assignee distinguishes
// "not provided" (nil) from "clear the assignee" (*Assignee == nil).
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	ColumnID    *uint
	Assignee    **uint
	DueDate     *time.Time
}

func validPriority(p string) bool {
	switch p {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityUrgent:
		return true
	}
	return false
}

// Create validates the board/column chain and inserts the task at the end of
// its column. Nothing is written if any validation fails.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput, actorID uint) (*model.Task, error) {
	if _, err := s.access.RequireProject(ctx, in.ProjectID, actorID); err != nil {
		return nil, err
	}
	board, err := s.boards.GetByID(ctx, in.BoardID)
	if err != nil {
		return nil, err
	}
	if board == nil || !board.IsActive || board.ProjectID != in.ProjectID {
		return nil, apperr.NotFound("board not found in this project")
	}
	column, err := s.columns.GetByID(ctx, in.ColumnID)
	if err != nil {
		return nil, err
	}
	if column == nil || !column.IsActive || column.BoardID != in.BoardID {
		return nil, apperr.NotFound("column not found on this board")
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !validPriority(priority) {
		return nil, apperr.Invalid("unknown priority: " + priority)
	}
	maxOrder, err := s.tasks.MaxOrderInColumn(ctx, in.ColumnID)
	if err != nil {
		return nil, err
	}
	task := &model.Task{
		ProjectID:   in.ProjectID,
		BoardID:     in.BoardID,
		ColumnID:    in.ColumnID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		CreatedByID: actorID,
		AssigneeID:  in.AssigneeID,
		Order:       maxOrder + 1,
		Comments:    model.CommentList{},
		DueDate:     in.DueDate,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Get fetches an active task the user can read. A soft-deleted task is
// NotFound, same as a missing one.
func (s *TaskService) Get(ctx context.Context, taskID, userID uint) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			return nil, apperr.NotFound("task not found")
		}
		return nil, err
	}
	ok, err := s.access.CanAccessProject(ctx, task.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("no access to this project")
	}
	return task, nil
}

// ListProject returns the project's active tasks in column order, optionally
// restricted to one board.
func (s *TaskService) ListProject(ctx context.Context, projectID, userID uint, boardID *uint) ([]model.Task, error) {
	if _, err := s.access.RequireProject(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID, boardID)
}

// ListColumn returns a column's active tasks in position order.
func (s *TaskService) ListColumn(ctx context.Context, columnID, userID uint) ([]model.Task, error) {
	column, _, err := s.requireColumn(ctx, columnID, userID)
	if err != nil {
		return nil, err
	}
	return s.tasks.ListByColumn(ctx, column.ID)
}

// Update applies a partial merge. Assignee changes emit notifications after
// the row update; a failed notification never reverts the task change.
func (s *TaskService) Update(ctx context.Context, taskID uint, in UpdateTaskInput, actorID uint) (*model.Task, error) {
	task, err := s.requireTaskPermission(ctx, taskID, actorID, ActionUpdate)
	if err != nil {
		return nil, err
	}
	oldAssignee := task.AssigneeID

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		if !validPriority(*in.Priority) {
			return nil, apperr.Invalid("unknown priority: " + *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.ColumnID != nil && *in.ColumnID != task.ColumnID {
		column, err := s.columns.GetByID(ctx, *in.ColumnID)
		if err != nil {
			return nil, err
		}
		if column == nil || !column.IsActive {
			return nil, apperr.NotFound("column not found")
		}
		board, err := s.boards.GetByID(ctx, column.BoardID)
		if err != nil {
			return nil, err
		}
		if board == nil || board.ProjectID != task.ProjectID {
			return nil, apperr.NotFound("column not found in this project")
		}
		maxOrder, err := s.tasks.MaxOrderInColumn(ctx, column.ID)
		if err != nil {
			return nil, err
		}
		task.ColumnID = column.ID
		task.BoardID = column.BoardID
		task.Order = maxOrder + 1
	}
	if in.Assignee != nil {
		task.AssigneeID = *in.Assignee
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if in.Assignee != nil && !sameAssignee(oldAssignee, task.AssigneeID) {
		if oldAssignee != nil && *oldAssignee != actorID {
			s.notifier.Notify(ctx, model.NotificationTaskUnassigned, *oldAssignee, &task.ProjectID, &task.ID, actorID,
				fmt.Sprintf("You were unassigned from task %q", task.Title))
		}
		if task.AssigneeID != nil && *task.AssigneeID != actorID {
			s.notifier.Notify(ctx, model.NotificationTaskAssigned, *task.AssigneeID, &task.ProjectID, &task.ID, actorID,
				fmt.Sprintf("You were assigned to task %q", task.Title))
		}
	}
	return task, nil
}

// Delete removes the task permanently. This is the direct hard-remove path;
// it never touches deleted_at, which belongs to the cascade soft deletes.
func (s *TaskService) Delete(ctx context.Context, taskID, actorID uint) error {
	task, err := s.requireTaskPermission(ctx, taskID, actorID, ActionDelete)
	if err != nil {
		return err
	}
	return s.tasks.Delete(ctx, task.ID)
}

// Move places the task into the target column. With an explicit order the
// column is renumbered to a dense 0..N-1 sequence around the moved task;
// without one the task is appended and nothing else shifts.
func (s *TaskService) Move(ctx context.Context, taskID, targetColumnID uint, explicitOrder *int, actorID uint) (*model.Task, error) {
	task, err := s.requireTaskPermission(ctx, taskID, actorID, ActionMove)
	if err != nil {
		return nil, err
	}
	column, err := s.columns.GetByID(ctx, targetColumnID)
	if err != nil {
		return nil, err
	}
	if column == nil || !column.IsActive {
		return nil, apperr.NotFound("column not found")
	}
	board, err := s.boards.GetByID(ctx, column.BoardID)
	if err != nil {
		return nil, err
	}
	if board == nil || board.ProjectID != task.ProjectID {
		return nil, apperr.NotFound("column not found in this project")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		occupants, err := s.tasks.ListByColumnTx(tx, column.ID)
		if err != nil {
			return err
		}
		// The moved task's own slot is not part of the shifted set.
		others := occupants[:0:0]
		for _, t := range occupants {
			if t.ID != task.ID {
				others = append(others, t)
			}
		}

		if explicitOrder == nil {
			task.Order = 0
			if len(others) > 0 {
				task.Order = others[len(others)-1].Order + 1
			}
		} else {
			slot := clampOrder(*explicitOrder, len(others))
			task.Order = slot
			for _, change := range renumberForInsert(others, slot) {
				if err := s.tasks.UpdateOrderTx(tx, change.TaskID, change.Order); err != nil {
					return err
				}
			}
		}
		task.ColumnID = column.ID
		task.BoardID = column.BoardID
		return s.tasks.SaveTx(tx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Reorder assigns order = index for every listed task that belongs to the
// column. Foreign ids are silently skipped: this is an idempotent resync of
// the column against the caller's view, not a strict reorder of a known set.
// Column-level project access is the only requirement.
func (s *TaskService) Reorder(ctx context.Context, columnID uint, orderedTaskIDs []uint, userID uint) error {
	column, _, err := s.requireColumn(ctx, columnID, userID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedTaskIDs {
			if err := s.tasks.UpdateOrderInColumnTx(tx, id, column.ID, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddComment appends to the task's embedded comment list and persists the
// whole list. The assignee and creator are notified, deduplicated, with the
// actor excluded.
func (s *TaskService) AddComment(ctx context.Context, taskID uint, content string, actorID uint) (*model.Comment, error) {
	task, err := s.requireTaskPermission(ctx, taskID, actorID, ActionComment)
	if err != nil {
		return nil, err
	}
	comment := model.Comment{
		ID:        uuid.NewString(),
		UserID:    actorID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	task.Comments = append(task.Comments, comment)
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	recipients := map[uint]bool{task.CreatedByID: true}
	if task.AssigneeID != nil {
		recipients[*task.AssigneeID] = true
	}
	delete(recipients, actorID)
	for userID := range recipients {
		s.notifier.Notify(ctx, model.NotificationTaskCommented, userID, &task.ProjectID, &task.ID, actorID,
			fmt.Sprintf("New comment on task %q", task.Title))
	}
	return &comment, nil
}

// ListComments returns the task's comment list, oldest first.
func (s *TaskService) ListComments(ctx context.Context, taskID, userID uint) ([]model.Comment, error) {
	task, err := s.Get(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if task.Comments == nil {
		return []model.Comment{}, nil
	}
	return task.Comments, nil
}

func (s *TaskService) requireTaskPermission(ctx context.Context, taskID, userID uint, action TaskAction) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			return nil, apperr.NotFound("task not found")
		}
		return nil, err
	}
	ok, err := s.access.CheckTaskPermission(ctx, task, userID, action)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden(fmt.Sprintf("no permission to %s this task", action))
	}
	return task, nil
}

// requireColumn resolves an active column and checks project access through
// its board.
func (s *TaskService) requireColumn(ctx context.Context, columnID, userID uint) (*model.KanbanColumn, *model.KanbanBoard, error) {
	column, err := s.columns.GetByID(ctx, columnID)
	if err != nil {
		return nil, nil, err
	}
	if column == nil || !column.IsActive {
		return nil, nil, apperr.NotFound("column not found")
	}
	board, err := s.boards.GetByID(ctx, column.BoardID)
	if err != nil {
		return nil, nil, err
	}
	if board == nil {
		return nil, nil, apperr.NotFound("board not found")
	}
	if _, err := s.access.RequireProject(ctx, board.ProjectID, userID); err != nil {
		return nil, nil, err
	}
	return column, board, nil
}

func sameAssignee(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
