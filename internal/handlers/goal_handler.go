package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"financebot/internal/models"
	"financebot/internal/services"
)

// GoalHandler handles goal-related requests.
type GoalHandler struct {
	goalService  services.GoalServicer
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	Name         string     `json:"name" binding:"max=100"`
	TargetAmount *flexFloat `json:"targetAmount" swaggertype:"number"`
	Category     string     `json:"category" binding:"max=100"`
	Deadline     *flexDate  `json:"deadline" swaggertype:"string"`
	Kind         string     `json:"kind" binding:"max=50"`
	Description  *string    `json:"description" binding:"omitempty,max=500"`
}

// UpdateGoalRequest represents the request payload for updating a goal.
// Active and Completed are only changed here.
type UpdateGoalRequest struct {
	Name         *string    `json:"name" binding:"omitempty,max=100"`
	TargetAmount *flexFloat `json:"targetAmount" swaggertype:"number"`
	Category     *string    `json:"category" binding:"omitempty,max=100"`
	Deadline     *flexDate  `json:"deadline" swaggertype:"string"`
	Kind         *string    `json:"kind" binding:"omitempty,max=50"`
	Description  *string    `json:"description" binding:"omitempty,max=500"`
	Active       *bool      `json:"active"`
	Completed    *bool      `json:"completed"`
}

// CreateGoal handles the creation of a new goal.
// @Summary     Create a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} models.Goal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, services.GoalInput{
		Name:         req.Name,
		TargetAmount: floatPtr(req.TargetAmount),
		Category:     req.Category,
		Deadline:     timePtr(req.Deadline),
		Kind:         req.Kind,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateGoal, "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"name": goal.Name, "targetAmount": goal.TargetAmount, "kind": goal.Kind})

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetGoals lists the user's goals.
// @Summary     Get goals
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Goal
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /goals [get]
func (h *GoalHandler) GetGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.ListGoals(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// UpdateGoal handles updating an existing goal.
// @Summary     Update goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to change"
// @Success     200 {object} models.Goal "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input or goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := models.GoalPatch{
		Name:         req.Name,
		TargetAmount: floatPtr(req.TargetAmount),
		Category:     req.Category,
		Deadline:     timePtr(req.Deadline),
		Kind:         req.Kind,
		Description:  req.Description,
		Active:       req.Active,
		Completed:    req.Completed,
	}
	goal, err := h.goalService.UpdateGoal(c.Request.Context(), userID, goalID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateGoal, "goal", goalID, c.ClientIP(),
		map[string]interface{}{"name": goal.Name, "active": goal.Active, "completed": goal.Completed})

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal handles deleting a goal.
// @Summary     Delete goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteGoal, "goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Goal deleted successfully"})
}
