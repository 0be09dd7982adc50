package service_test

import (
	"testing"

	"github.com/minhpbb/kanban/internal/model"
	"github.com/minhpbb/kanban/internal/service"

	"github.com/stretchr/testify/assert"
)

const (
	ownerID    = uint(1)
	adminID    = uint(2)
	creatorID  = uint(3)
	assigneeID = uint(4)
	memberID   = uint(5)
	outsiderID = uint(6)
)

func fixtureTask() *model.Task {
	assignee := assigneeID
	return &model.Task{
		ID:          10,
		ProjectID:   100,
		CreatedByID: creatorID,
		AssigneeID:  &assignee,
	}
}

func fixtureProject() *model.Project {
	return &model.Project{ID: 100, OwnerID: ownerID, Status: model.ProjectStatusActive}
}

func activeMember(userID uint, role string) *model.ProjectMember {
	return &model.ProjectMember{ProjectID: 100, UserID: userID, Role: role, IsActive: true}
}

func TestTaskPermission_Matrix(t *testing.T) {
	project := fixtureProject()
	task := fixtureTask()
	allActions := []service.TaskAction{
		service.ActionRead, service.ActionUpdate, service.ActionDelete,
		service.ActionMove, service.ActionComment,
	}

	tests := []struct {
		name    string
		userID  uint
		member  *model.ProjectMember
		allowed map[service.TaskAction]bool
	}{
		{
			name:   "owner can do everything without a membership row",
			userID: ownerID,
			member: nil,
			allowed: map[service.TaskAction]bool{
				service.ActionRead: true, service.ActionUpdate: true, service.ActionDelete: true,
				service.ActionMove: true, service.ActionComment: true,
			},
		},
		{
			name:   "active admin can do everything",
			userID: adminID,
			member: activeMember(adminID, model.RoleAdmin),
			allowed: map[service.TaskAction]bool{
				service.ActionRead: true, service.ActionUpdate: true, service.ActionDelete: true,
				service.ActionMove: true, service.ActionComment: true,
			},
		},
		{
			name:   "creator with plain membership gets update/delete plus member rights",
			userID: creatorID,
			member: activeMember(creatorID, model.RoleMember),
			allowed: map[service.TaskAction]bool{
				service.ActionRead: true, service.ActionUpdate: true, service.ActionDelete: true,
				service.ActionMove: false, service.ActionComment: true,
			},
		},
		{
			name:   "assignee with plain membership gets update/comment plus read",
			userID: assigneeID,
			member: activeMember(assigneeID, model.RoleMember),
			allowed: map[service.TaskAction]bool{
				service.ActionRead: true, service.ActionUpdate: true, service.ActionDelete: false,
				service.ActionMove: false, service.ActionComment: true,
			},
		},
		{
			name:   "plain member with no task relation gets read/comment only",
			userID: memberID,
			member: activeMember(memberID, model.RoleMember),
			allowed: map[service.TaskAction]bool{
				service.ActionRead: true, service.ActionUpdate: false, service.ActionDelete: false,
				service.ActionMove: false, service.ActionComment: true,
			},
		},
		{
			name:   "inactive admin membership grants nothing",
			userID: memberID,
			member: &model.ProjectMember{ProjectID: 100, UserID: memberID, Role: model.RoleAdmin, IsActive: false},
			allowed: map[service.TaskAction]bool{
				service.ActionRead: false, service.ActionUpdate: false, service.ActionDelete: false,
				service.ActionMove: false, service.ActionComment: false,
			},
		},
		{
			name:   "non-member gets nothing",
			userID: outsiderID,
			member: nil,
			allowed: map[service.TaskAction]bool{
				service.ActionRead: false, service.ActionUpdate: false, service.ActionDelete: false,
				service.ActionMove: false, service.ActionComment: false,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, action := range allActions {
				got := service.TaskPermission(project, tc.member, task, tc.userID, action)
				assert.Equal(t, tc.allowed[action], got, "action %s", action)
			}
		})
	}
}

func TestTaskPermission_CreatorWithoutMembership(t *testing.T) {
	// A creator whose membership was deactivated keeps creator rights on the
	// row itself but loses member-level read.
	project := fixtureProject()
	task := fixtureTask()

	assert.True(t, service.TaskPermission(project, nil, task, creatorID, service.ActionUpdate))
	assert.True(t, service.TaskPermission(project, nil, task, creatorID, service.ActionDelete))
	assert.False(t, service.TaskPermission(project, nil, task, creatorID, service.ActionRead))
}

func TestTaskPermission_UnassignedTask(t *testing.T) {
	project := fixtureProject()
	task := fixtureTask()
	task.AssigneeID = nil

	assert.False(t, service.TaskPermission(project, activeMember(assigneeID, model.RoleMember), task, assigneeID, service.ActionUpdate))
	assert.True(t, service.TaskPermission(project, activeMember(assigneeID, model.RoleMember), task, assigneeID, service.ActionComment))
}
