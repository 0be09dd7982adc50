package service

import (
	"context"

	"github.com/minhpbb/kanban/internal/apperr"
	"github.com/minhpbb/kanban/internal/model"
	"github.com/minhpbb/kanban/internal/repository"
)

// TaskAction is an operation a user may attempt on a task.
type TaskAction string

const (
	ActionRead    TaskAction = "read"
	ActionUpdate  TaskAction = "update"
	ActionDelete  TaskAction = "delete"
	ActionMove    TaskAction = "move"
	ActionComment TaskAction = "comment"
)

// TaskPermission decides whether a user may perform an action on a task,
// given the already-loaded project and the user's membership row (nil if
// none). First matching rule wins:
//
//  1. project owner: everything
//  2. active admin member: everything
//  3. task creator: update, delete
//  4. task assignee: update, comment
//  5. any active member: read, comment
//
// The evaluator is a pure function: it never errors, absence simply yields
// false. Callers translate false into Forbidden at their boundary.
func TaskPermission(project *model.Project, member *model.ProjectMember, task *model.Task, userID uint, action TaskAction) bool {
	if project.OwnerID == userID {
		return true
	}
	active := member != nil && member.IsActive
	if active && member.Role == model.RoleAdmin {
		return true
	}
	if task.CreatedByID == userID && (action == ActionUpdate || action == ActionDelete) {
		return true
	}
	if task.AssigneeID != nil && *task.AssigneeID == userID &&
		(action == ActionUpdate || action == ActionComment) {
		return true
	}
	if active && (action == ActionRead || action == ActionComment) {
		return true
	}
	return false
}

// AccessService loads the rows the pure evaluator needs and exposes the
// project-level checks used by every lifecycle operation.
type AccessService struct {
	projects *repository.ProjectRepository
	members  *repository.MemberRepository
}

func NewAccessService(projects *repository.ProjectRepository, members *repository.MemberRepository) *AccessService {
	return &AccessService{projects: projects, members: members}
}

// CanAccessProject reports whether the user is the project owner or holds an
// active membership row.
func (s *AccessService) CanAccessProject(ctx context.Context, projectID, userID uint) (bool, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	if project == nil {
		return false, nil
	}
	if project.OwnerID == userID {
		return true, nil
	}
	member, err := s.members.GetActive(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	return member != nil, nil
}

// IsProjectAdmin reports whether the user holds an active admin membership.
// The owner is handled separately by callers; owning a project grants admin
// rights without a membership row.
func (s *AccessService) IsProjectAdmin(ctx context.Context, projectID, userID uint) (bool, error) {
	member, err := s.members.GetActive(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	return member != nil && member.Role == model.RoleAdmin, nil
}

// CheckTaskPermission loads the task's project and the user's membership and
// evaluates the permission matrix.
func (s *AccessService) CheckTaskPermission(ctx context.Context, task *model.Task, userID uint, action TaskAction) (bool, error) {
	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return false, err
	}
	if project == nil {
		return false, nil
	}
	member, err := s.members.GetActive(ctx, task.ProjectID, userID)
	if err != nil {
		return false, err
	}
	return TaskPermission(project, member, task, userID, action), nil
}

// RequireProject loads an active project and verifies the user can access it.
// Existence is checked before access: a missing or soft-deleted project is
// NotFound, a real one the user cannot see is Forbidden. The asymmetry leaks
// existence of private projects and is a documented property of the API.
func (s *AccessService) RequireProject(ctx context.Context, projectID, userID uint) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil || project.Status == model.ProjectStatusDeleted {
		return nil, apperr.NotFound("project not found")
	}
	if project.OwnerID == userID {
		return project, nil
	}
	member, err := s.members.GetActive(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperr.Forbidden("no access to this project")
	}
	return project, nil
}

// RequireProjectAdmin is RequireProject plus an owner-or-admin requirement.
func (s *AccessService) RequireProjectAdmin(ctx context.Context, projectID, userID uint) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil || project.Status == model.ProjectStatusDeleted {
		return nil, apperr.NotFound("project not found")
	}
	if project.OwnerID == userID {
		return project, nil
	}
	admin, err := s.IsProjectAdmin(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, apperr.Forbidden("requires project owner or admin")
	}
	return project, nil
}
