package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/blackeyes972/budget-familiare/internal/database"
	"github.com/blackeyes972/budget-familiare/internal/report"
	"github.com/blackeyes972/budget-familiare/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the aggregation endpoints.
type ReportHandler struct {
	Store *database.Current
}

func NewReportHandler(store *database.Current) *ReportHandler {
	return &ReportHandler{Store: store}
}

func (h *ReportHandler) engine(c *gin.Context) (*report.Engine, bool) {
	mgr, err := h.Store.Manager()
	if err != nil {
		util.Error(c, http.StatusConflict, util.CodeStoreErr, "no store selected")
		return nil, false
	}
	return report.New(mgr.Session()), true
}

// yearMonth resolves year/month query params, defaulting to the
// current month.
func yearMonth(c *gin.Context) (int, int, bool) {
	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 1900 || year > 3000 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

// Period sums transactions in an optional [start, end] range.
func (h *ReportHandler) Period(c *gin.Context) {
	eng, ok := h.engine(c)
	if !ok {
		return
	}

	var start, end *time.Time
	if s := c.Query("start"); s != "" {
		t, err := util.ValidateDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start must be YYYY-MM-DD")
			return
		}
		start = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := util.ValidateDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end must be YYYY-MM-DD")
			return
		}
		// include the whole end day
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		end = &t
	}

	summary, err := eng.PeriodSummary(start, end)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "period summary failed")
		return
	}
	util.Success(c, util.Response{"summary": summary})
}

func (h *ReportHandler) Monthly(c *gin.Context) {
	eng, ok := h.engine(c)
	if !ok {
		return
	}
	year, month, ok := yearMonth(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year or month")
		return
	}

	summary, err := eng.MonthlySummary(year, month)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "monthly summary failed")
		return
	}
	util.Success(c, util.Response{"year": year, "month": month, "summary": summary})
}

func (h *ReportHandler) MonthlyCategories(c *gin.Context) {
	eng, ok := h.engine(c)
	if !ok {
		return
	}
	year, month, ok := yearMonth(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year or month")
		return
	}

	rows, err := eng.CategoryMonthlySummary(year, month)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "category summary failed")
		return
	}
	util.Success(c, util.Response{"year": year, "month": month, "categories": rows})
}

func (h *ReportHandler) MonthlyDaily(c *gin.Context) {
	eng, ok := h.engine(c)
	if !ok {
		return
	}
	year, month, ok := yearMonth(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year or month")
		return
	}

	days, err := eng.DailySummary(year, month)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "daily summary failed")
		return
	}
	util.Success(c, util.Response{"year": year, "month": month, "days": days})
}

func (h *ReportHandler) Trend(c *gin.Context) {
	eng, ok := h.engine(c)
	if !ok {
		return
	}
	year, month, ok := yearMonth(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year or month")
		return
	}

	trend, err := eng.Trend(year, month)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "trend failed")
		return
	}
	util.Success(c, util.Response{"trend": trend})
}

func (h *ReportHandler) TopExpenses(c *gin.Context) {
	eng, ok := h.engine(c)
	if !ok {
		return
	}
	year, month, ok := yearMonth(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year or month")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 0 || limit > 100 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid limit")
		return
	}

	expenses, err := eng.TopExpenses(year, month, limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "top expenses failed")
		return
	}
	util.Success(c, util.Response{"year": year, "month": month, "expenses": expenses})
}
