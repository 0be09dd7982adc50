package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minhpbb/kanban/internal/model"
	"github.com/minhpbb/kanban/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type CreateTaskRequest struct {
	ProjectID   uint       `json:"project_id" binding:"required"`
	BoardID     uint       `json:"board_id" binding:"required"`
	ColumnID    uint       `json:"column_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssigneeID  *uint      `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	ColumnID    *uint   `json:"column_id"`
	// A JSON null here is indistinguishable from the field being absent and
	// is treated as "not provided". Clearing the assignee goes through
	// DELETE /tasks/:id/assign.
	AssigneeID *uint      `json:"assignee_id"`
	DueDate    *time.Time `json:"due_date"`
}

type TaskMoveRequest struct {
	ColumnID uint `json:"column_id" binding:"required"`
	Order    *int `json:"order"`
}

type ReorderTasksRequest struct {
	TaskIDs []uint `json:"task_ids" binding:"required"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type TaskResponse struct {
	ID          uint    `json:"id"`
	ProjectID   uint    `json:"project_id"`
	BoardID     uint    `json:"board_id"`
	ColumnID    uint    `json:"column_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	CreatedBy   uint    `json:"created_by"`
	AssigneeID  *uint   `json:"assignee_id,omitempty"`
	Order       int     `json:"order"`
	DueDate     *string `json:"due_date,omitempty"`
}

func toTaskResponse(t *model.Task) TaskResponse {
	response := TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		BoardID:     t.BoardID,
		ColumnID:    t.ColumnID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		CreatedBy:   t.CreatedByID,
		AssigneeID:  t.AssigneeID,
		Order:       t.Order,
	}
	if t.DueDate != nil {
		dueDate := t.DueDate.Format(time.RFC3339)
		response.DueDate = &dueDate
	}
	return response
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	task, err := h.taskService.Create(c.Request.Context(), service.CreateTaskInput{
		ProjectID:   req.ProjectID,
		BoardID:     req.BoardID,
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	}, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	task, err := h.taskService.Get(c.Request.Context(), taskID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) ListByProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var boardID *uint
	if raw := c.Query("board_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board_id format"})
			return
		}
		id := uint(parsed)
		boardID = &id
	}
	tasks, err := h.taskService.ListProject(c.Request.Context(), projectID, userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = toTaskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *TaskHandler) ListByColumn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	columnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tasks, err := h.taskService.ListColumn(c.Request.Context(), columnID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = toTaskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		ColumnID:    req.ColumnID,
		DueDate:     req.DueDate,
	}
	if req.AssigneeID != nil {
		in.Assignee = &req.AssigneeID
	}
	task, err := h.taskService.Update(c.Request.Context(), taskID, in, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Unassign clears the task's assignee via the same partial-merge path as
// Update, so the unassignment notification fires consistently.
func (h *TaskHandler) Unassign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var cleared *uint
	task, err := h.taskService.Update(c.Request.Context(), taskID, service.UpdateTaskInput{Assignee: &cleared}, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.taskService.Delete(c.Request.Context(), taskID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func (h *TaskHandler) Move(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req TaskMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	task, err := h.taskService.Move(c.Request.Context(), taskID, req.ColumnID, req.Order, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Reorder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	columnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReorderTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.taskService.Reorder(c.Request.Context(), columnID, req.TaskIDs, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tasks reordered"})
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	comment, err := h.taskService.AddComment(c.Request.Context(), taskID, req.Content, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *TaskHandler) ListComments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	comments, err := h.taskService.ListComments(c.Request.Context(), taskID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
