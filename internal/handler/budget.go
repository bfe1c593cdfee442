package handler

import (
	"net/http"
	"strconv"

	"github.com/blackeyes972/budget-familiare/internal/database"
	"github.com/blackeyes972/budget-familiare/internal/models"
	"github.com/blackeyes972/budget-familiare/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler serves monthly budget caps.
type BudgetHandler struct {
	Store *database.Current
}

func NewBudgetHandler(store *database.Current) *BudgetHandler {
	return &BudgetHandler{Store: store}
}

func (h *BudgetHandler) session(c *gin.Context) (*gorm.DB, bool) {
	mgr, err := h.Store.Manager()
	if err != nil {
		util.Error(c, http.StatusConflict, util.CodeStoreErr, "no store selected")
		return nil, false
	}
	return mgr.Session(), true
}

type budgetReq struct {
	CategoryID     uint    `json:"category_id" binding:"required"`
	MonthlyLimit   float64 `json:"monthly_limit" binding:"required"`
	AlertThreshold float64 `json:"alert_threshold"`
	Year           int     `json:"year" binding:"required"`
	Month          int     `json:"month" binding:"required"`
}

func (h *BudgetHandler) List(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	query := session.Model(&models.Budget{}).Where("is_active = ?", true)
	if s := c.Query("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year")
			return
		}
		query = query.Where("year = ?", year)
	}
	if s := c.Query("month"); s != "" {
		month, err := strconv.Atoi(s)
		if err != nil || month < 1 || month > 12 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid month")
			return
		}
		query = query.Where("month = ?", month)
	}

	var budgets []models.Budget
	if err := query.Order("year DESC, month DESC, category_id").Find(&budgets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list budgets failed")
		return
	}
	util.Success(c, util.Response{"budgets": budgets})
}

func (h *BudgetHandler) Create(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if req.MonthlyLimit <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "monthly_limit must be positive")
		return
	}
	if req.Month < 1 || req.Month > 12 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid month")
		return
	}
	if req.AlertThreshold <= 0 || req.AlertThreshold > 1 {
		req.AlertThreshold = 0.8
	}

	var cat models.Category
	if err := session.First(&cat, req.CategoryID).Error; err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category_id does not resolve")
		return
	}

	// one active budget per category and month
	var existing int64
	session.Model(&models.Budget{}).
		Where("category_id = ? AND year = ? AND month = ? AND is_active = ?",
			req.CategoryID, req.Year, req.Month, true).
		Count(&existing)
	if existing > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict, "budget already set for category and month")
		return
	}

	budget := models.Budget{
		CategoryID:     req.CategoryID,
		MonthlyLimit:   req.MonthlyLimit,
		AlertThreshold: req.AlertThreshold,
		Year:           req.Year,
		Month:          req.Month,
		IsActive:       true,
	}
	if err := session.Create(&budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create budget failed")
		return
	}
	util.Success(c, util.Response{"budget": budget})
}

func (h *BudgetHandler) Update(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid budget id")
		return
	}

	var req struct {
		MonthlyLimit   *float64 `json:"monthly_limit"`
		AlertThreshold *float64 `json:"alert_threshold"`
		IsActive       *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	updates := map[string]interface{}{}
	if req.MonthlyLimit != nil {
		if *req.MonthlyLimit <= 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "monthly_limit must be positive")
			return
		}
		updates["monthly_limit"] = *req.MonthlyLimit
	}
	if req.AlertThreshold != nil {
		updates["alert_threshold"] = *req.AlertThreshold
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "nothing to update")
		return
	}

	res := session.Model(&models.Budget{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update budget failed")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "budget not found")
		return
	}
	util.Success(c, util.Response{"updated": id})
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid budget id")
		return
	}

	res := session.Delete(&models.Budget{}, id)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete budget failed")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "budget not found")
		return
	}
	util.Success(c, util.Response{"deleted": id})
}
