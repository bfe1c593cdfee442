package handler

import (
	"net/http"

	"github.com/blackeyes972/budget-familiare/internal/database"
	"github.com/blackeyes972/budget-familiare/internal/util"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports whether a store is selected and what it holds.
type HealthHandler struct {
	Store *database.Current
}

func NewHealthHandler(store *database.Current) *HealthHandler {
	return &HealthHandler{Store: store}
}

func (h *HealthHandler) Health(c *gin.Context) {
	mgr, err := h.Store.Manager()
	if err != nil {
		util.Success(c, util.Response{"status": "degraded", "store": nil})
		return
	}

	info, err := mgr.Info()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeStoreErr, "store unreachable: "+err.Error())
		return
	}
	util.Success(c, util.Response{"status": "ok", "store": info})
}
