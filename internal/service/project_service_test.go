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
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func newProjectService(t *testing.T) (*service.ProjectService, sqlmock.Sqlmock) {
	gormDB, mock := setupMockDB(t)

	projects := repository.NewProjectRepository(gormDB)
	members := repository.NewMemberRepository(gormDB)
	boards := repository.NewBoardRepository(gormDB)
	columns := repository.NewColumnRepository(gormDB)
	tasks := repository.NewTaskRepository(gormDB)
	notifications := repository.NewNotificationRepository(gormDB)
	users := repository.NewUserRepository(gormDB)
	access := service.NewAccessService(projects, members)
	notifier := service.NewNotifier(notifications)

	svc := service.NewProjectService(gormDB, projects, members, boards, columns, tasks, notifications, users, access, notifier)
	return svc, mock
}

func projectRow(id, owner uint, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "owner_id", "status", "created_at", "updated_at"}).
		AddRow(int64(id), "Demo", "", int64(owner), status, time.Now(), time.Now())
}

func TestProjectService_Create(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectQuery(`INSERT INTO "project_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	// Act
	project, err := svc.Create(context.Background(), service.CreateProjectInput{Name: "Demo"}, 1)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, project)
	assert.Equal(t, uint(100), project.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_Create_RollsBackOnMembershipFailure(t *testing.T) {
	// The project insert succeeds but the owner's membership row fails: the
	// whole transaction rolls back and no project persists.
	svc, mock := newProjectService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectQuery(`INSERT INTO "project_members"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Act
	project, err := svc.Create(context.Background(), service.CreateProjectInput{Name: "Demo"}, 1)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, project)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_SoftDelete_Cascade(t *testing.T) {
	// Deleting a project marks it deleted and deactivates members, boards,
	// columns and tasks, then archives its unread notifications, all in one
	// transaction.
	svc, mock := newProjectService(t)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(projectRow(100, 1, "active"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "projects" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "project_members" SET`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE "kanban_boards" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "kanban_columns" SET`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE "tasks" SET`).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`UPDATE "notifications" SET`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	// Act
	err := svc.SoftDelete(context.Background(), 100, 1)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_SoftDelete_RollsBackOnStepFailure(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(projectRow(100, 1, "active"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "projects" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "project_members" SET`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Act
	err := svc.SoftDelete(context.Background(), 100, 1)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "deactivate members")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_SoftDelete_NonOwnerForbidden(t *testing.T) {
	// An admin member can manage the project but only the owner may delete it.
	svc, mock := newProjectService(t)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(projectRow(100, 1, "active"))
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "user_id", "role", "is_active"}).
			AddRow(int64(5), int64(100), int64(2), "admin", true))

	// Act
	err := svc.SoftDelete(context.Background(), 100, 2)

	// Assert
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_AddMember_InactiveRowIsStillConflict(t *testing.T) {
	// The membership check looks at rows in any state: a previously removed
	// (deactivated) member cannot simply be re-added, the old row makes it a
	// Conflict and nothing is inserted.
	svc, mock := newProjectService(t)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(projectRow(100, 1, "active"))
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnRows(userRow(2, true))
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "user_id", "role", "is_active"}).
			AddRow(int64(5), int64(100), int64(2), "member", false))

	// Act
	member, err := svc.AddMember(context.Background(), 100, 2, "member", 1)

	// Assert
	assert.Nil(t, member)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_RemoveMember_OwnerSelfRemovalForbidden(t *testing.T) {
	// The owner can never be removed, not even by themself. The check fires
	// before any membership lookup.
	svc, mock := newProjectService(t)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(projectRow(100, 1, "active"))

	// Act
	err := svc.RemoveMember(context.Background(), 100, 1, 1)

	// Assert
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_RemoveMember_OwnerNotRemovableByAdmin(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(projectRow(100, 1, "active"))
	// Actor 2 holds an active admin membership; the lookup runs twice, once
	// for project access and once for the owner-or-admin requirement.
	adminMember := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "project_id", "user_id", "role", "is_active"}).
			AddRow(int64(5), int64(100), int64(2), "admin", true)
	}
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .*`).
		WillReturnRows(adminMember())
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .*`).
		WillReturnRows(adminMember())

	// Act
	err := svc.RemoveMember(context.Background(), 100, 1, 2)

	// Assert
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_Get_DeletedIsNotFound(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(projectRow(100, 1, "deleted"))

	// Act
	project, err := svc.Get(context.Background(), 100, 1)

	// Assert
	assert.Nil(t, project)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// expectProjectPurge scripts the full purge of one project: memberships,
// then each board's tasks and columns, then the boards, any tasks still
// linked directly to the project, its notifications, and finally the
// project row itself.
func expectProjectPurge(mock sqlmock.Sqlmock, boardID uint) {
	mock.ExpectExec(`DELETE FROM "project_members"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`SELECT .* FROM "kanban_boards" WHERE project_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "name", "is_active"}).
			AddRow(int64(boardID), int64(100), "Main", true))
	mock.ExpectExec(`DELETE FROM "tasks"`).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`DELETE FROM "kanban_columns"`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "kanban_boards"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "tasks"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "notifications"`).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM "projects"`).WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestProjectService_HardDelete_PurgesAllTables(t *testing.T) {
	// Hard delete removes every row under the project in one transaction,
	// children before parents, the project row last. A soft-deleted project
	// is still reachable here: purging one is legitimate.
	svc, mock := newProjectService(t)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(projectRow(100, 1, "deleted"))

	mock.ExpectBegin()
	expectProjectPurge(mock, 20)
	mock.ExpectCommit()

	// Act
	err := svc.HardDelete(context.Background(), 100, 1)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_HardDelete_RollsBackMidPurge(t *testing.T) {
	// A failure partway through the purge leaves no partial deletion behind.
	svc, mock := newProjectService(t)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(projectRow(100, 1, "active"))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "project_members"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`SELECT .* FROM "kanban_boards" WHERE project_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "name", "is_active"}).
			AddRow(int64(20), int64(100), "Main", true))
	mock.ExpectExec(`DELETE FROM "tasks"`).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`DELETE FROM "kanban_columns"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Act
	err := svc.HardDelete(context.Background(), 100, 1)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "delete columns of board 20")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_HardDelete_NonOwnerForbidden(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(projectRow(100, 1, "active"))

	// Act
	err := svc.HardDelete(context.Background(), 100, 2)

	// Assert
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
