package handler

import (
	"net/http"
	"strconv"

	"github.com/blackeyes972/budget-familiare/internal/catalog"
	"github.com/blackeyes972/budget-familiare/internal/database"
	"github.com/blackeyes972/budget-familiare/internal/models"
	"github.com/blackeyes972/budget-familiare/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves the category catalog.
type CategoryHandler struct {
	Store *database.Current
}

func NewCategoryHandler(store *database.Current) *CategoryHandler {
	return &CategoryHandler{Store: store}
}

func (h *CategoryHandler) catalog(c *gin.Context) (*catalog.Manager, bool) {
	mgr, err := h.Store.Manager()
	if err != nil {
		util.Error(c, http.StatusConflict, util.CodeStoreErr, "no store selected")
		return nil, false
	}
	return catalog.NewManager(mgr.Session()), true
}

func (h *CategoryHandler) List(c *gin.Context) {
	cm, ok := h.catalog(c)
	if !ok {
		return
	}

	transactionType := c.Query("type")
	if transactionType != "" {
		if err := util.ValidateTransactionType(transactionType); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type must be income or expense")
			return
		}
	}
	activeOnly := c.DefaultQuery("active_only", "true") != "false"

	categories, err := cm.List(transactionType, activeOnly)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list categories failed")
		return
	}
	util.Success(c, util.Response{"categories": categories})
}

type categoryReq struct {
	Name            string `json:"name" binding:"required"`
	TransactionType string `json:"transaction_type" binding:"required"`
	Color           string `json:"color"`
	Icon            string `json:"icon"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	cm, ok := h.catalog(c)
	if !ok {
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidateTransactionType(req.TransactionType); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "transaction_type must be income or expense")
		return
	}

	cat := models.Category{
		Name:            req.Name,
		TransactionType: req.TransactionType,
		Color:           req.Color,
		Icon:            req.Icon,
	}
	if err := cm.Add(&cat); err != nil {
		if err == catalog.ErrDuplicate {
			util.Error(c, http.StatusConflict, util.CodeConflict, "category already exists")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create category failed")
		}
		return
	}
	util.Success(c, util.Response{"category": cat})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	cm, ok := h.catalog(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Color    *string `json:"color"`
		Icon     *string `json:"icon"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "nothing to update")
		return
	}

	if err := cm.Update(uint(id), updates); err != nil {
		if err == catalog.ErrNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update category failed")
		}
		return
	}
	util.Success(c, util.Response{"updated": id})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	cm, ok := h.catalog(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return
	}

	if err := cm.Delete(uint(id)); err != nil {
		if err == catalog.ErrNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete category failed")
		}
		return
	}
	util.Success(c, util.Response{"deleted": id})
}

// Suggest proposes a default category for a free-text description.
func (h *CategoryHandler) Suggest(c *gin.Context) {
	description := c.Query("description")
	transactionType := c.DefaultQuery("type", models.TypeExpense)
	if err := util.ValidateTransactionType(transactionType); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type must be income or expense")
		return
	}

	util.Success(c, util.Response{"suggestions": catalog.Suggest(description, transactionType)})
}

// SuggestIcons proposes icons for a category name.
func (h *CategoryHandler) SuggestIcons(c *gin.Context) {
	name := c.Query("name")
	transactionType := c.DefaultQuery("type", models.TypeExpense)
	if err := util.ValidateTransactionType(transactionType); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type must be income or expense")
		return
	}

	util.Success(c, util.Response{"icons": catalog.SuggestIcons(name, transactionType)})
}

func (h *CategoryHandler) Stats(c *gin.Context) {
	cm, ok := h.catalog(c)
	if !ok {
		return
	}

	stats, err := cm.Stats()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "category stats failed")
		return
	}
	util.Success(c, util.Response{"stats": stats})
}
