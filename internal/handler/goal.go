package handler

import (
	"net/http"
	"time"

	"github.com/blackeyes972/budget-familiare/internal/database"
	"github.com/blackeyes972/budget-familiare/internal/models"
	"github.com/blackeyes972/budget-familiare/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GoalHandler serves savings goals.
type GoalHandler struct {
	Store *database.Current
}

func NewGoalHandler(store *database.Current) *GoalHandler {
	return &GoalHandler{Store: store}
}

func (h *GoalHandler) session(c *gin.Context) (*gorm.DB, bool) {
	mgr, err := h.Store.Manager()
	if err != nil {
		util.Error(c, http.StatusConflict, util.CodeStoreErr, "no store selected")
		return nil, false
	}
	return mgr.Session(), true
}

// goalView flattens the derived progress fields into the reply.
func goalView(g models.Goal) util.Response {
	return util.Response{
		"goal":                g,
		"progress_percentage": g.ProgressPercentage(),
		"remaining_amount":    g.RemainingAmount(),
	}
}

type goalReq struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	TargetAmount  float64 `json:"target_amount" binding:"required"`
	CurrentAmount float64 `json:"current_amount"`
	TargetDate    string  `json:"target_date"`
	GoalType      string  `json:"goal_type"`
	Priority      int     `json:"priority"`
}

func (h *GoalHandler) List(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	query := session.Model(&models.Goal{})
	if c.DefaultQuery("active_only", "true") != "false" {
		query = query.Where("is_active = ?", true)
	}

	var goals []models.Goal
	if err := query.Order("priority, created_at").Find(&goals).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list goals failed")
		return
	}

	views := make([]util.Response, 0, len(goals))
	for _, g := range goals {
		views = append(views, goalView(g))
	}
	util.Success(c, util.Response{"goals": views})
}

func (h *GoalHandler) Create(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if req.TargetAmount <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "target_amount must be positive")
		return
	}

	goal := models.Goal{
		Name:          req.Name,
		Description:   req.Description,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		GoalType:      req.GoalType,
		Priority:      req.Priority,
		IsActive:      true,
	}
	if goal.GoalType == "" {
		goal.GoalType = "savings"
	}
	if goal.Priority < 1 || goal.Priority > 3 {
		goal.Priority = 2
	}
	if req.TargetDate != "" {
		t, err := util.ValidateDate(req.TargetDate)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "target_date must be YYYY-MM-DD")
			return
		}
		goal.TargetDate = &t
	}

	if err := session.Create(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create goal failed")
		return
	}
	util.Success(c, goalView(goal))
}

// Update mutates goal fields. Reaching the target marks the goal
// completed and stamps completed_at once.
func (h *GoalHandler) Update(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	id := c.Param("id")
	var goal models.Goal
	if err := session.Where("id = ?", id).First(&goal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "goal not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "look up goal failed")
		}
		return
	}

	var req struct {
		Name          *string  `json:"name"`
		Description   *string  `json:"description"`
		TargetAmount  *float64 `json:"target_amount"`
		CurrentAmount *float64 `json:"current_amount"`
		Priority      *int     `json:"priority"`
		IsActive      *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if req.Name != nil {
		goal.Name = *req.Name
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.TargetAmount != nil {
		if *req.TargetAmount <= 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "target_amount must be positive")
			return
		}
		goal.TargetAmount = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		goal.CurrentAmount = *req.CurrentAmount
	}
	if req.Priority != nil && *req.Priority >= 1 && *req.Priority <= 3 {
		goal.Priority = *req.Priority
	}
	if req.IsActive != nil {
		goal.IsActive = *req.IsActive
	}

	if goal.CurrentAmount >= goal.TargetAmount && !goal.IsCompleted {
		goal.IsCompleted = true
		now := time.Now().UTC()
		goal.CompletedAt = &now
	}

	if err := session.Save(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save goal failed")
		return
	}
	util.Success(c, goalView(goal))
}

func (h *GoalHandler) Delete(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	id := c.Param("id")
	res := session.Where("id = ?", id).Delete(&models.Goal{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete goal failed")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "goal not found")
		return
	}
	util.Success(c, util.Response{"deleted": id})
}
