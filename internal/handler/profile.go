package handler

import (
	"log"
	"net/http"

	"github.com/blackeyes972/budget-familiare/internal/database"
	"github.com/blackeyes972/budget-familiare/internal/registry"
	"github.com/blackeyes972/budget-familiare/internal/util"

	"github.com/gin-gonic/gin"
)

// ProfileHandler manages named store profiles and the active store.
// Selecting a profile runs the full migration protocol; the previous
// store stays authoritative until the new one is ready.
type ProfileHandler struct {
	Registry *registry.Registry
	Store    *database.Current
	DataDir  string
	LogMode  bool
}

func NewProfileHandler(reg *registry.Registry, store *database.Current, dataDir string, logMode bool) *ProfileHandler {
	return &ProfileHandler{Registry: reg, Store: store, DataDir: dataDir, LogMode: logMode}
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.Registry.List()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "read profiles failed")
		return
	}
	util.Success(c, util.Response{"profiles": profiles})
}

type profileReq struct {
	Name   string          `json:"name" binding:"required"`
	Type   string          `json:"type" binding:"required"`
	Params database.Params `json:"params"`
}

func (h *ProfileHandler) Create(c *gin.Context) {
	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if _, err := database.EngineFor(req.Type); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unsupported store type")
		return
	}

	if err := h.Registry.Add(req.Name, req.Type, req.Params); err != nil {
		if err == registry.ErrExists {
			util.Error(c, http.StatusConflict, util.CodeConflict, "profile name already taken")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save profile failed")
		}
		return
	}
	util.Success(c, util.Response{"created": req.Name})
}

// Test opens a throwaway connection for the given parameters without
// touching the registry or the active store.
func (h *ProfileHandler) Test(c *gin.Context) {
	var req struct {
		Type   string          `json:"type" binding:"required"`
		Params database.Params `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if err := database.TestConnection(req.Type, req.Params, h.DataDir); err != nil {
		util.Error(c, http.StatusBadGateway, util.CodeStoreErr, "connection failed: "+err.Error())
		return
	}
	util.Success(c, util.Response{"reachable": true})
}

// Select makes the named profile current, migrating all data from the
// active store into it.
func (h *ProfileHandler) Select(c *gin.Context) {
	name := c.Param("name")

	profiles, err := h.Registry.List()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "read profiles failed")
		return
	}
	var target *registry.Profile
	for i := range profiles {
		if profiles[i].Name == name {
			target = &profiles[i]
			break
		}
	}
	if target == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "profile not found")
		return
	}
	if target.IsCurrent {
		util.Success(c, util.Response{"selected": name, "migrated": false})
		return
	}

	from, err := h.Store.Manager()
	if err != nil {
		// no active store yet: plain open, nothing to migrate
		mgr, err := database.Open(target.Type, target.Params, h.DataDir, h.LogMode)
		if err != nil {
			util.Error(c, http.StatusBadGateway, util.CodeStoreErr, "open store failed: "+err.Error())
			return
		}
		h.Store.Swap(mgr)
		if err := h.Registry.SetCurrent(name); err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update registry failed")
			return
		}
		util.Success(c, util.Response{"selected": name, "migrated": false})
		return
	}

	to, stats, err := database.Switch(from, target.Type, target.Params, h.DataDir, h.LogMode)
	if err != nil {
		util.Error(c, http.StatusBadGateway, util.CodeStoreErr, "switch failed: "+err.Error())
		return
	}

	prev := h.Store.Swap(to)
	if prev != nil && prev != to {
		if err := prev.Close(); err != nil {
			log.Printf("close previous store: %v", err)
		}
	}
	if err := h.Registry.SetCurrent(name); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update registry failed")
		return
	}

	util.Success(c, util.Response{
		"selected": name,
		"migrated": true,
		"stats":    stats,
	})
}

// Delete removes a profile from the registry. Removing the current one
// also closes and clears the active store: data operations answer
// "no store selected" until an explicit reselect, never silently keep
// writing into a store whose profile is gone.
func (h *ProfileHandler) Delete(c *gin.Context) {
	name := c.Param("name")

	cur, err := h.Registry.Current()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "read profiles failed")
		return
	}
	wasCurrent := cur != nil && cur.Name == name

	if err := h.Registry.Remove(name); err != nil {
		if err == registry.ErrNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "profile not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "remove profile failed")
		}
		return
	}

	if wasCurrent {
		if prev := h.Store.Clear(); prev != nil {
			if err := prev.Close(); err != nil {
				log.Printf("close removed store: %v", err)
			}
		}
	}

	util.Success(c, util.Response{"deleted": name, "reselect_required": wasCurrent})
}
