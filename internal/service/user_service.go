package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/apperr"
	"github.com/minhpbb/kanban/internal/model"
	"github.com/minhpbb/kanban/internal/repository"
)

type UserService struct {
	db            *gorm.DB
	users         *repository.UserRepository
	roles         *repository.RoleRepository
	tokens        *repository.TokenRepository
	projects      *repository.ProjectRepository
	members       *repository.MemberRepository
	tasks         *repository.TaskRepository
	notifications *repository.NotificationRepository
	projectSvc    *ProjectService
}

func NewUserService(
	db *gorm.DB,
	users *repository.UserRepository,
	roles *repository.RoleRepository,
	tokens *repository.TokenRepository,
	projects *repository.ProjectRepository,
	members *repository.MemberRepository,
	tasks *repository.TaskRepository,
	notifications *repository.NotificationRepository,
	projectSvc *ProjectService,
) *UserService {
	return &UserService{
		db:            db,
		users:         users,
		roles:         roles,
		tokens:        tokens,
		projects:      projects,
		members:       members,
		tasks:         tasks,
		notifications: notifications,
		projectSvc:    projectSvc,
	}
}

type UpdateProfileInput struct {
	DisplayName *string
	Avatar      *string
	Email       *string
}

// GetProfile returns an active user by id.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// UpdateProfile applies a partial merge. Changing the email to one already
// in use is a conflict, same as at registration.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Email != nil && *in.Email != user.Email {
		existing, err := s.users.FindByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("email is already in use")
		}
		user.Email = *in.Email
	}
	if in.DisplayName != nil {
		user.DisplayName = *in.DisplayName
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before setting the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(current)); err != nil {
		return apperr.Invalid("current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.HashedPassword = string(hash)
	return s.users.Update(ctx, user)
}

// SoftDelete deactivates the user and everything centred on them: owned
// projects flip to deleted, memberships deactivate, created and assigned
// tasks soft-delete, notifications archive, refresh tokens revoke. Projects
// the user merely participates in are untouched. Self-deletion is forbidden;
// the actor needs the global admin role.
func (s *UserService) SoftDelete(ctx context.Context, targetUserID, actingUserID uint) error {
	if err := s.requireDeletePermission(ctx, targetUserID, actingUserID); err != nil {
		return err
	}
	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.SoftDeleteTx(tx, targetUserID, now); err != nil {
			return fmt.Errorf("deactivate user: %w", err)
		}
		if err := s.projects.SetStatusByOwnerTx(tx, targetUserID, model.ProjectStatusDeleted); err != nil {
			return fmt.Errorf("soft-delete owned projects: %w", err)
		}
		if err := s.members.DeactivateByUserTx(tx, targetUserID, now); err != nil {
			return fmt.Errorf("deactivate memberships: %w", err)
		}
		if err := s.tasks.SoftDeleteByUserTx(tx, targetUserID, now); err != nil {
			return fmt.Errorf("soft-delete tasks: %w", err)
		}
		if err := s.notifications.ArchiveByUserTx(tx, targetUserID); err != nil {
			return fmt.Errorf("archive notifications: %w", err)
		}
		if err := s.tokens.RevokeAllForUserTx(tx, targetUserID); err != nil {
			return fmt.Errorf("revoke tokens: %w", err)
		}
		return nil
	})
}

// HardDelete irreversibly purges the user. Every owned project is purged
// exactly as a project hard delete would, then the user's own memberships,
// tasks, notifications, tokens and role rows go, and finally the user row.
func (s *UserService) HardDelete(ctx context.Context, targetUserID, actingUserID uint) error {
	if err := s.requireDeletePermission(ctx, targetUserID, actingUserID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned, err := s.projects.ListByOwnerTx(tx, targetUserID)
		if err != nil {
			return fmt.Errorf("list owned projects: %w", err)
		}
		for _, project := range owned {
			if err := s.projectSvc.purgeProjectTx(tx, project.ID); err != nil {
				return fmt.Errorf("purge project %d: %w", project.ID, err)
			}
		}
		if err := s.members.DeleteByUserTx(tx, targetUserID); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		if err := s.tasks.DeleteByUserTx(tx, targetUserID); err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		if err := s.notifications.DeleteByUserTx(tx, targetUserID); err != nil {
			return fmt.Errorf("delete notifications: %w", err)
		}
		if err := s.tokens.DeleteByUserTx(tx, targetUserID); err != nil {
			return fmt.Errorf("delete tokens: %w", err)
		}
		if err := s.roles.DeleteByUserTx(tx, targetUserID); err != nil {
			return fmt.Errorf("delete role assignments: %w", err)
		}
		if err := s.users.DeleteTx(tx, targetUserID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

func (s *UserService) requireDeletePermission(ctx context.Context, targetUserID, actingUserID uint) error {
	if targetUserID == actingUserID {
		return apperr.Forbidden("self-deletion is not allowed")
	}
	admin, err := s.roles.HasRole(ctx, actingUserID, model.RoleGlobalAdmin)
	if err != nil {
		return err
	}
	if !admin {
		return apperr.Forbidden("requires the admin role")
	}
	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperr.NotFound("user not found")
	}
	return nil
}
