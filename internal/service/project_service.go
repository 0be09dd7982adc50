package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/apperr"
	"github.com/minhpbb/kanban/internal/model"
	"github.com/minhpbb/kanban/internal/repository"
)

const (
	DefaultProjectPage  = 1
	DefaultProjectLimit = 10
)

type ProjectService struct {
	db            *gorm.DB
	projects      *repository.ProjectRepository
	members       *repository.MemberRepository
	boards        *repository.BoardRepository
	columns       *repository.ColumnRepository
	tasks         *repository.TaskRepository
	notifications *repository.NotificationRepository
	users         *repository.UserRepository
	access        *AccessService
	notifier      *Notifier
}

func NewProjectService(
	db *gorm.DB,
	projects *repository.ProjectRepository,
	members *repository.MemberRepository,
	boards *repository.BoardRepository,
	columns *repository.ColumnRepository,
	tasks *repository.TaskRepository,
	notifications *repository.NotificationRepository,
	users *repository.UserRepository,
	access *AccessService,
	notifier *Notifier,
) *ProjectService {
	return &ProjectService{
		db:            db,
		projects:      projects,
		members:       members,
		boards:        boards,
		columns:       columns,
		tasks:         tasks,
		notifications: notifications,
		users:         users,
		access:        access,
		notifier:      notifier,
	}
}

type CreateProjectInput struct {
	Name        string
	Description string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// Create inserts the project and an admin membership row for the owner in
// one transaction. Either both rows persist or neither does.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput, ownerID uint) (*model.Project, error) {
	project := &model.Project{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     ownerID,
		Status:      model.ProjectStatusActive,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.projects.CreateTx(tx, project); err != nil {
			return err
		}
		return s.members.CreateTx(tx, &model.ProjectMember{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      model.RoleAdmin,
			IsActive:  true,
			JoinedAt:  time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// List returns the page of projects the user owns or belongs to, newest
// first, plus the total match count.
func (s *ProjectService) List(ctx context.Context, userID uint, page, limit int) ([]model.Project, int64, error) {
	if page < 1 {
		page = DefaultProjectPage
	}
	if limit < 1 {
		limit = DefaultProjectLimit
	}
	return s.projects.ListForUser(ctx, userID, page, limit)
}

// Get fetches an active project the user can access. Existence is checked
// before access (see AccessService.RequireProject).
func (s *ProjectService) Get(ctx context.Context, id, userID uint) (*model.Project, error) {
	return s.access.RequireProject(ctx, id, userID)
}

// Update applies a partial field merge. Owner or admin only.
func (s *ProjectService) Update(ctx context.Context, id uint, in UpdateProjectInput, userID uint) (*model.Project, error) {
	project, err := s.access.RequireProject(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(ctx, project, userID); err != nil {
		return nil, err
	}
	if in.Name != nil {
		project.Name = *in.Name
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// SoftDelete marks the project deleted and deactivates everything under it:
// memberships, boards, columns, tasks, and the project's unread
// notifications. Owner only. All rows survive and the operation is
// reversible in principle; any failure rolls the whole cascade back.
func (s *ProjectService) SoftDelete(ctx context.Context, id, userID uint) error {
	project, err := s.access.RequireProject(ctx, id, userID)
	if err != nil {
		return err
	}
	if project.OwnerID != userID {
		return apperr.Forbidden("only the project owner can delete a project")
	}
	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.projects.SetStatusTx(tx, id, model.ProjectStatusDeleted); err != nil {
			return fmt.Errorf("set project status: %w", err)
		}
		if err := s.members.DeactivateByProjectTx(tx, id, now); err != nil {
			return fmt.Errorf("deactivate members: %w", err)
		}
		if err := s.boards.DeactivateByProjectTx(tx, id); err != nil {
			return fmt.Errorf("deactivate boards: %w", err)
		}
		if err := s.columns.DeactivateByProjectTx(tx, id); err != nil {
			return fmt.Errorf("deactivate columns: %w", err)
		}
		if err := s.tasks.SoftDeleteByProjectTx(tx, id, now); err != nil {
			return fmt.Errorf("soft-delete tasks: %w", err)
		}
		if err := s.notifications.ArchiveUnreadByProjectTx(tx, id); err != nil {
			return fmt.Errorf("archive notifications: %w", err)
		}
		return nil
	})
}

// HardDelete irreversibly purges the project and every row under it. Owner
// only. Unlike Get, a soft-deleted project is still reachable here: purging
// an already soft-deleted project is legitimate.
func (s *ProjectService) HardDelete(ctx context.Context, id, userID uint) error {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return apperr.NotFound("project not found")
	}
	if project.OwnerID != userID {
		return apperr.Forbidden("only the project owner can delete a project")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.purgeProjectTx(tx, id)
	})
}

// purgeProjectTx removes every row belonging to the project inside the
// caller's transaction. The user hard-delete cascade reuses it for each
// owned project. Tasks and columns go before their boards so the step order
// respects referential tooling; logically everything disappears atomically.
func (s *ProjectService) purgeProjectTx(tx *gorm.DB, projectID uint) error {
	if err := s.members.DeleteByProjectTx(tx, projectID); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	boards, err := s.boards.ListByProjectTx(tx, projectID)
	if err != nil {
		return fmt.Errorf("list boards: %w", err)
	}
	for _, board := range boards {
		if err := s.tasks.DeleteByBoardTx(tx, board.ID); err != nil {
			return fmt.Errorf("delete tasks of board %d: %w", board.ID, err)
		}
		if err := s.columns.DeleteByBoardTx(tx, board.ID); err != nil {
			return fmt.Errorf("delete columns of board %d: %w", board.ID, err)
		}
	}
	if err := s.boards.DeleteByProjectTx(tx, projectID); err != nil {
		return fmt.Errorf("delete boards: %w", err)
	}
	if err := s.tasks.DeleteByProjectTx(tx, projectID); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if err := s.notifications.DeleteByProjectTx(tx, projectID); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	if err := s.projects.DeleteTx(tx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// AddMember adds a user to the project. Owner or admin only. A membership
// row in any state makes this a Conflict: re-adding a previously removed
// member is deliberately not supported here (product decision pending; a
// reactivation flow would be a separate operation).
func (s *ProjectService) AddMember(ctx context.Context, projectID, newUserID uint, role string, actingUserID uint) (*model.ProjectMember, error) {
	project, err := s.access.RequireProject(ctx, projectID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(ctx, project, actingUserID); err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && role != model.RoleMember && role != model.RoleViewer {
		return nil, apperr.Invalid("unknown role: " + role)
	}
	target, err := s.users.GetByID(ctx, newUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperr.NotFound("user not found")
	}
	existing, err := s.members.Get(ctx, projectID, newUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("user is already a member of this project")
	}
	member := &model.ProjectMember{
		ProjectID: projectID,
		UserID:    newUserID,
		Role:      role,
		IsActive:  true,
		JoinedAt:  time.Now(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, model.NotificationMemberAdded, newUserID, &projectID, nil, actingUserID,
		fmt.Sprintf("You were added to project %q", project.Name))
	return member, nil
}

// RemoveMember deactivates a user's membership. Owner or admin only; the
// owner can never be removed, not even by themself.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, targetUserID, actingUserID uint) error {
	project, err := s.access.RequireProject(ctx, projectID, actingUserID)
	if err != nil {
		return err
	}
	if err := s.requireOwnerOrAdmin(ctx, project, actingUserID); err != nil {
		return err
	}
	if targetUserID == project.OwnerID {
		return apperr.Forbidden("the project owner cannot be removed")
	}
	member, err := s.members.GetActive(ctx, projectID, targetUserID)
	if err != nil {
		return err
	}
	if member == nil {
		return apperr.NotFound("membership not found")
	}
	if err := s.members.Deactivate(ctx, projectID, targetUserID, time.Now()); err != nil {
		return err
	}
	s.notifier.Notify(ctx, model.NotificationMemberRemoved, targetUserID, &projectID, nil, actingUserID,
		fmt.Sprintf("You were removed from project %q", project.Name))
	return nil
}

// ListMembers returns the active members with their user profiles.
func (s *ProjectService) ListMembers(ctx context.Context, projectID, userID uint) ([]model.ProjectMember, error) {
	if _, err := s.access.RequireProject(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.members.ListActive(ctx, projectID)
}

func (s *ProjectService) requireOwnerOrAdmin(ctx context.Context, project *model.Project, userID uint) error {
	if project.OwnerID == userID {
		return nil
	}
	admin, err := s.access.IsProjectAdmin(ctx, project.ID, userID)
	if err != nil {
		return err
	}
	if !admin {
		return apperr.Forbidden("requires project owner or admin")
	}
	return nil
}
