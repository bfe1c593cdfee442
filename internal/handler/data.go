package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/blackeyes972/budget-familiare/internal/database"
	"github.com/blackeyes972/budget-familiare/internal/models"
	"github.com/blackeyes972/budget-familiare/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// DataHandler serves export, import and backup of the whole dataset.
type DataHandler struct {
	Store      *database.Current
	BackupsDir string
	ExportsDir string
}

func NewDataHandler(store *database.Current, backupsDir, exportsDir string) *DataHandler {
	return &DataHandler{Store: store, BackupsDir: backupsDir, ExportsDir: exportsDir}
}

func (h *DataHandler) manager(c *gin.Context) (*database.Manager, bool) {
	mgr, err := h.Store.Manager()
	if err != nil {
		util.Error(c, http.StatusConflict, util.CodeStoreErr, "no store selected")
		return nil, false
	}
	return mgr, true
}

func stamp() string {
	return time.Now().Format("20060102_150405")
}

// ExportJSON streams the portable record set as a JSON download.
func (h *DataHandler) ExportJSON(c *gin.Context) {
	mgr, ok := h.manager(c)
	if !ok {
		return
	}

	data, err := mgr.ExportAll()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}

	if c.Query("save") == "true" {
		name := fmt.Sprintf("export_%s.json", stamp())
		path, err := database.WriteExport(data, h.ExportsDir, name)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "write export failed")
			return
		}
		util.Success(c, util.Response{"path": path, "transactions": len(data.Transactions)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="export_%s.json"`, stamp()))
	c.JSON(http.StatusOK, data)
}

// ImportJSON merges a portable record set into the active store and
// reports what was created, updated and skipped.
func (h *DataHandler) ImportJSON(c *gin.Context) {
	mgr, ok := h.manager(c)
	if !ok {
		return
	}

	var data database.ExportData
	if err := c.ShouldBindJSON(&data); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid export payload")
		return
	}

	stats, err := mgr.Import(&data)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "import failed")
		return
	}
	util.Success(c, util.Response{"stats": stats})
}

// csvHeader is the column order of the CSV export.
var csvHeader = []string{
	"id", "date", "amount", "description", "notes",
	"category", "transaction_type", "recurrence_type", "tags",
}

// ExportCSV streams every transaction, category resolved by name.
func (h *DataHandler) ExportCSV(c *gin.Context) {
	mgr, ok := h.manager(c)
	if !ok {
		return
	}
	session := mgr.Session()

	var categories []models.Category
	if err := session.Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
	names := make(map[uint]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	var transactions []models.Transaction
	if err := session.Order("date, id").Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions_%s.csv"`, stamp()))

	w := csv.NewWriter(c.Writer)
	_ = w.Write(csvHeader)
	for _, tx := range transactions {
		_ = w.Write([]string{
			tx.ID,
			tx.Date.UTC().Format("2006-01-02"),
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			tx.Description,
			tx.Notes,
			names[tx.CategoryID],
			tx.TransactionType,
			tx.RecurrenceType,
			tx.Tags,
		})
	}
	w.Flush()
}

// ExportXLSX writes a spreadsheet with one sheet of transactions and
// one monthly recap sheet.
func (h *DataHandler) ExportXLSX(c *gin.Context) {
	mgr, ok := h.manager(c)
	if !ok {
		return
	}
	session := mgr.Session()

	var categories []models.Category
	if err := session.Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
	names := make(map[uint]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	var transactions []models.Transaction
	if err := session.Order("date, id").Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const txSheet = "Transactions"
	f.SetSheetName(f.GetSheetName(0), txSheet)
	for col, title := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(txSheet, cell, title)
	}

	type monthKey struct{ year, month int }
	type monthTotals struct{ income, expense float64 }
	recap := map[monthKey]*monthTotals{}

	for i, tx := range transactions {
		row := i + 2
		values := []interface{}{
			tx.ID,
			tx.Date.UTC().Format("2006-01-02"),
			tx.Amount,
			tx.Description,
			tx.Notes,
			names[tx.CategoryID],
			tx.TransactionType,
			tx.RecurrenceType,
			tx.Tags,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(txSheet, cell, v)
		}

		key := monthKey{tx.Date.Year(), int(tx.Date.Month())}
		totals := recap[key]
		if totals == nil {
			totals = &monthTotals{}
			recap[key] = totals
		}
		if tx.TransactionType == models.TypeIncome {
			totals.income += tx.Amount
		} else {
			totals.expense += tx.Amount
		}
	}

	const recapSheet = "Monthly"
	_, err := f.NewSheet(recapSheet)
	if err == nil {
		for col, title := range []string{"month", "income", "expense", "net"} {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			_ = f.SetCellValue(recapSheet, cell, title)
		}
		keys := make([]monthKey, 0, len(recap))
		for k := range recap {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].year != keys[j].year {
				return keys[i].year < keys[j].year
			}
			return keys[i].month < keys[j].month
		})
		for i, k := range keys {
			totals := recap[k]
			row := i + 2
			values := []interface{}{
				fmt.Sprintf("%04d-%02d", k.year, k.month),
				totals.income,
				totals.expense,
				totals.income - totals.expense,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				_ = f.SetCellValue(recapSheet, cell, v)
			}
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions_%s.xlsx"`, stamp()))
	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "write spreadsheet failed")
	}
}

// CreateBackup snapshots the active store into the backups directory.
func (h *DataHandler) CreateBackup(c *gin.Context) {
	mgr, ok := h.manager(c)
	if !ok {
		return
	}

	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		name = fmt.Sprintf("backup_%s", stamp())
	}
	if strings.ContainsAny(name, `/\`) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid backup name")
		return
	}

	path, err := mgr.Backup(h.BackupsDir, name)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "backup failed: "+err.Error())
		return
	}
	util.Success(c, util.Response{"path": path})
}

// ListBackups shows the files in the backups directory, newest first.
func (h *DataHandler) ListBackups(c *gin.Context) {
	entries, err := os.ReadDir(h.BackupsDir)
	if err != nil {
		if os.IsNotExist(err) {
			util.Success(c, util.Response{"backups": []util.Response{}})
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "read backups failed")
		return
	}

	type backupInfo struct {
		Name       string    `json:"name"`
		Size       int64     `json:"size"`
		ModifiedAt time.Time `json:"modified_at"`
	}
	backups := make([]backupInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backupInfo{
			Name:       filepath.Base(e.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModifiedAt.After(backups[j].ModifiedAt)
	})
	util.Success(c, util.Response{"backups": backups})
}
