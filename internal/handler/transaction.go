package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/blackeyes972/budget-familiare/internal/database"
	"github.com/blackeyes972/budget-familiare/internal/models"
	"github.com/blackeyes972/budget-familiare/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler serves transaction entry and listing.
type TransactionHandler struct {
	Store *database.Current
}

func NewTransactionHandler(store *database.Current) *TransactionHandler {
	return &TransactionHandler{Store: store}
}

type transactionReq struct {
	Date            string                 `json:"date"`
	Amount          float64                `json:"amount" binding:"required"`
	Description     string                 `json:"description" binding:"required"`
	Notes           string                 `json:"notes"`
	CategoryID      uint                   `json:"category_id" binding:"required"`
	TransactionType string                 `json:"transaction_type" binding:"required"`
	RecurrenceType  string                 `json:"recurrence_type"`
	Tags            []string               `json:"tags"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// parseDate accepts the formats the clients actually send.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Now().UTC(), true
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// validate applies the write-time checks and resolves the category. The
// transaction type must equal the category's own type; the two fields
// carrying the same fact is tolerated only while they agree.
func (h *TransactionHandler) validate(db *gorm.DB, req *transactionReq) (time.Time, string) {
	if err := util.ValidateDescription(req.Description); err != nil {
		return time.Time{}, "description is required"
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		return time.Time{}, "amount must be a positive number"
	}
	if err := util.ValidateTransactionType(req.TransactionType); err != nil {
		return time.Time{}, "transaction_type must be income or expense"
	}
	if req.RecurrenceType == "" {
		req.RecurrenceType = models.RecurrenceNone
	}
	if err := util.ValidateRecurrence(req.RecurrenceType); err != nil {
		return time.Time{}, "invalid recurrence_type"
	}

	date, ok := parseDate(req.Date)
	if !ok {
		return time.Time{}, "invalid date, expected YYYY-MM-DD or RFC 3339"
	}

	var cat models.Category
	if err := db.First(&cat, req.CategoryID).Error; err != nil {
		return time.Time{}, "category_id does not resolve"
	}
	if cat.TransactionType != req.TransactionType {
		return time.Time{}, "transaction_type does not match the category type"
	}
	return date, ""
}

func (h *TransactionHandler) Create(c *gin.Context) {
	mgr, err := h.Store.Manager()
	if err != nil {
		util.Error(c, http.StatusConflict, util.CodeStoreErr, "no store selected")
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	session := mgr.Session()
	date, problem := h.validate(session, &req)
	if problem != "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, problem)
		return
	}

	meta, _ := json.Marshal(req.Metadata)
	tx := models.Transaction{
		Date:            date,
		Amount:          req.Amount,
		Description:     strings.TrimSpace(req.Description),
		Notes:           req.Notes,
		CategoryID:      req.CategoryID,
		TransactionType: req.TransactionType,
		RecurrenceType:  req.RecurrenceType,
		MetadataJSON:    string(meta),
	}
	tx.SetTagList(req.Tags)

	if err := session.Create(&tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save transaction failed")
		return
	}
	util.Success(c, util.Response{"transaction": tx})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	mgr, err := h.Store.Manager()
	if err != nil {
		util.Error(c, http.StatusConflict, util.CodeStoreErr, "no store selected")
		return
	}

	id := c.Param("id")
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	session := mgr.Session()
	var tx models.Transaction
	if err := session.Where("id = ?", id).First(&tx).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "look up transaction failed")
		}
		return
	}

	date, problem := h.validate(session, &req)
	if problem != "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, problem)
		return
	}

	meta, _ := json.Marshal(req.Metadata)
	tx.Date = date
	tx.Amount = req.Amount
	tx.Description = strings.TrimSpace(req.Description)
	tx.Notes = req.Notes
	tx.CategoryID = req.CategoryID
	tx.TransactionType = req.TransactionType
	tx.RecurrenceType = req.RecurrenceType
	tx.MetadataJSON = string(meta)
	tx.SetTagList(req.Tags)

	if err := session.Save(&tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save transaction failed")
		return
	}
	util.Success(c, util.Response{"transaction": tx})
}

// List returns transactions with optional filters: start/end
// (YYYY-MM-DD), type, category_id, plus pagination.
func (h *TransactionHandler) List(c *gin.Context) {
	mgr, err := h.Store.Manager()
	if err != nil {
		util.Error(c, http.StatusConflict, util.CodeStoreErr, "no store selected")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if size <= 0 || size > 200 {
		size = 50
	}

	query := mgr.Session().Model(&models.Transaction{})

	if s := c.Query("start"); s != "" {
		start, err := util.ValidateDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start must be YYYY-MM-DD")
			return
		}
		query = query.Where("date >= ?", start)
	}
	if s := c.Query("end"); s != "" {
		end, err := util.ValidateDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end must be YYYY-MM-DD")
			return
		}
		// inclusive end of day
		query = query.Where("date < ?", end.AddDate(0, 0, 1))
	}
	if t := c.Query("type"); t == models.TypeIncome || t == models.TypeExpense {
		query = query.Where("transaction_type = ?", t)
	}
	if s := c.Query("category_id"); s != "" {
		catID, err := strconv.Atoi(s)
		if err != nil || catID <= 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category_id")
			return
		}
		query = query.Where("category_id = ?", catID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "count transactions failed")
		return
	}

	var transactions []models.Transaction
	if err := query.Session(&gorm.Session{}).
		Order("date DESC, id DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list transactions failed")
		return
	}

	util.Success(c, util.Response{
		"items": transactions,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	mgr, err := h.Store.Manager()
	if err != nil {
		util.Error(c, http.StatusConflict, util.CodeStoreErr, "no store selected")
		return
	}

	id := c.Param("id")
	res := mgr.Session().Where("id = ?", id).Delete(&models.Transaction{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete transaction failed")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		return
	}
	util.Success(c, util.Response{"deleted": id})
}
