package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/minhpbb/kanban/internal/apperr"
	"github.com/minhpbb/kanban/internal/repository"
	"github.com/minhpbb/kanban/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (*service.UserService, sqlmock.Sqlmock) {
	gormDB, mock := setupMockDB(t)

	users := repository.NewUserRepository(gormDB)
	roles := repository.NewRoleRepository(gormDB)
	tokens := repository.NewTokenRepository(gormDB)
	projects := repository.NewProjectRepository(gormDB)
	members := repository.NewMemberRepository(gormDB)
	boards := repository.NewBoardRepository(gormDB)
	columns := repository.NewColumnRepository(gormDB)
	tasks := repository.NewTaskRepository(gormDB)
	notifications := repository.NewNotificationRepository(gormDB)
	access := service.NewAccessService(projects, members)
	notifier := service.NewNotifier(notifications)
	projectSvc := service.NewProjectService(gormDB, projects, members, boards, columns, tasks, notifications, users, access, notifier)

	svc := service.NewUserService(gormDB, users, roles, tokens, projects, members, tasks, notifications, projectSvc)
	return svc, mock
}

func userRow(id uint, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "hashed_password", "is_active", "created_at"}).
		AddRow(int64(id), "target", "target@example.com", "hash", active, time.Now())
}

func adminRoleRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "role"}).
		AddRow(int64(1), int64(9), "admin")
}

func TestUserService_SoftDelete_Cascade(t *testing.T) {
	// Deactivating a user flips their owned projects to deleted, deactivates
	// their memberships, soft-deletes their tasks, archives their
	// notifications and revokes their refresh tokens, all in one transaction.
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT .* FROM "user_roles" WHERE user_id = .*`).
		WillReturnRows(adminRoleRow())
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnRows(userRow(7, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "projects" SET`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "project_members" SET`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE "tasks" SET`).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`UPDATE "notifications" SET`).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`UPDATE "refresh_tokens" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := svc.SoftDelete(context.Background(), 7, 9)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SoftDelete_RollsBackOnStepFailure(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT .* FROM "user_roles" WHERE user_id = .*`).
		WillReturnRows(adminRoleRow())
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnRows(userRow(7, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "projects" SET`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Act
	err := svc.SoftDelete(context.Background(), 7, 9)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "soft-delete owned projects")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_HardDelete_PurgesOwnedProjectsAndUserRows(t *testing.T) {
	// Every project the user owns is purged exactly as a project hard delete
	// would, then the user's own memberships, tasks, notifications, tokens
	// and role rows go, and finally the user row, all in one transaction.
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT .* FROM "user_roles" WHERE user_id = .*`).
		WillReturnRows(adminRoleRow())
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnRows(userRow(7, true))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE owner_id = .*`).
		WillReturnRows(projectRow(100, 7, "active"))
	expectProjectPurge(mock, 20)
	mock.ExpectExec(`DELETE FROM "project_members"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "tasks"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "notifications"`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "refresh_tokens"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "user_roles"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := svc.HardDelete(context.Background(), 7, 9)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_HardDelete_RollsBackMidPurge(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT .* FROM "user_roles" WHERE user_id = .*`).
		WillReturnRows(adminRoleRow())
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnRows(userRow(7, true))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE owner_id = .*`).
		WillReturnRows(projectRow(100, 7, "active"))
	mock.ExpectExec(`DELETE FROM "project_members"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Act
	err := svc.HardDelete(context.Background(), 7, 9)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "purge project 100")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SoftDelete_SelfForbidden(t *testing.T) {
	// Not even a global admin may delete their own account.
	svc, mock := newUserService(t)

	err := svc.SoftDelete(context.Background(), 9, 9)

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SoftDelete_RequiresAdminRole(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT .* FROM "user_roles" WHERE user_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	err := svc.SoftDelete(context.Background(), 7, 9)

	// Assert
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ChangePassword_WrongCurrent(t *testing.T) {
	svc, mock := newUserService(t)

	// Stored hash does not match the supplied current password.
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnRows(userRow(7, true))

	err := svc.ChangePassword(context.Background(), 7, "wrong", "newpassword")

	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetProfile_InactiveIsNotFound(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnRows(userRow(7, false))

	user, err := svc.GetProfile(context.Background(), 7)

	assert.Nil(t, user)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
