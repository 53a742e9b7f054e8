package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/internal/validation"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

type ZoneService interface {
	List(ctx context.Context, filter store.ZoneFilter) ([]types.Zone, error)
	Get(ctx context.Context, id int) (types.Zone, error)
	Create(ctx context.Context, req dto.CreateZoneRequest) (types.Zone, error)
	Update(ctx context.Context, id int, req dto.UpdateZoneRequest) (types.Zone, error)
	Delete(ctx context.Context, id int) error
}

// ZoneAssets lists the assets currently held by a zone.
type ZoneAssets interface {
	ListByZone(ctx context.Context, zoneID int) ([]types.Asset, error)
}

// ZoneHandler provides HTTP handlers for zones.
type ZoneHandler struct {
	zones     ZoneService
	assets    ZoneAssets
	threshold float64
	validate  *validation.Validator
	log       *zap.Logger
}

// ZoneRouter registers zone routes on the given router. threshold is the
// near-capacity fraction reported on each zone.
func ZoneRouter(r chi.Router, zones ZoneService, assets ZoneAssets, threshold float64, validate *validation.Validator, log *zap.Logger) {
	handler := &ZoneHandler{zones: zones, assets: assets, threshold: threshold, validate: validate, log: log}

	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Route("/{zoneID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Put("/", handler.Update)
		r.Delete("/", handler.Delete)
		r.Get("/assets", handler.Assets)
	})
}

func (h *ZoneHandler) List(w http.ResponseWriter, r *http.Request) {
	zoneTypeID, err := queryInt(r, "zoneTypeId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.zones.List(r.Context(), store.ZoneFilter{
		ZoneTypeID:     zoneTypeID,
		IncludeDeleted: queryBool(r, "includeDeleted"),
	})
	if err != nil {
		writeInternalError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewZoneResponses(items, h.threshold))
}

func (h *ZoneHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "zoneID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	zone, err := h.zones.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Zone", id)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewZoneResponse(zone, h.threshold))
}

func (h *ZoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateZoneRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	zone, err := h.zones.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Zone", 0)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/zones/%d", zone.ID))
	writeJSON(w, http.StatusCreated, dto.NewZoneResponse(zone, h.threshold))
}

func (h *ZoneHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "zoneID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req dto.UpdateZoneRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	zone, err := h.zones.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Zone", id)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewZoneResponse(zone, h.threshold))
}

func (h *ZoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "zoneID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.zones.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.log, err, "Zone", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ZoneHandler) Assets(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "zoneID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.assets.ListByZone(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Zone", id)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAssetResponses(items, time.Now()))
}
