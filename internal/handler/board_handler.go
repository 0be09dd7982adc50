package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhpbb/kanban/internal/model"
	"github.com/minhpbb/kanban/internal/service"
)

type BoardHandler struct {
	boardService *service.BoardService
}

func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

type CreateBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

type BoardResponse struct {
	ID        uint   `json:"id"`
	ProjectID uint   `json:"project_id"`
	Name      string `json:"name"`
}

type ColumnResponse struct {
	ID       uint   `json:"id"`
	BoardID  uint   `json:"board_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

func toColumnResponse(col *model.KanbanColumn) ColumnResponse {
	return ColumnResponse{
		ID:       col.ID,
		BoardID:  col.BoardID,
		Name:     col.Name,
		Position: col.Position,
	}
}

func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	board, err := h.boardService.CreateBoard(c.Request.Context(), projectID, req.Name, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, BoardResponse{ID: board.ID, ProjectID: board.ProjectID, Name: board.Name})
}

func (h *BoardHandler) ListByProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	boards, err := h.boardService.ListBoards(c.Request.Context(), projectID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]BoardResponse, len(boards))
	for i, b := range boards {
		response[i] = BoardResponse{ID: b.ID, ProjectID: b.ProjectID, Name: b.Name}
	}
	c.JSON(http.StatusOK, response)
}

func (h *BoardHandler) ListColumns(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	columns, err := h.boardService.ListColumns(c.Request.Context(), boardID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]ColumnResponse, len(columns))
	for i := range columns {
		response[i] = toColumnResponse(&columns[i])
	}
	c.JSON(http.StatusOK, response)
}

type AddColumnRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *BoardHandler) AddColumn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AddColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	column, err := h.boardService.AddColumn(c.Request.Context(), boardID, req.Name, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toColumnResponse(column))
}

type RenameColumnRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *BoardHandler) RenameColumn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	columnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req RenameColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	column, err := h.boardService.RenameColumn(c.Request.Context(), columnID, req.Name, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toColumnResponse(column))
}

type ReorderColumnsRequest struct {
	ColumnIDs []uint `json:"column_ids" binding:"required"`
}

func (h *BoardHandler) ReorderColumns(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.boardService.ReorderColumns(c.Request.Context(), boardID, req.ColumnIDs, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Columns reordered"})
}
