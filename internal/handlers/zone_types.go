package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/validation"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

type ZoneTypeService interface {
	List(ctx context.Context, includeDeleted bool) ([]types.ZoneType, error)
	Get(ctx context.Context, id int) (types.ZoneType, error)
	Create(ctx context.Context, req dto.CreateZoneTypeRequest) (types.ZoneType, error)
	Update(ctx context.Context, id int, req dto.UpdateZoneTypeRequest) (types.ZoneType, error)
	Delete(ctx context.Context, id int) error
}

// ZoneTypeHandler provides HTTP handlers for zone types.
type ZoneTypeHandler struct {
	zoneTypes ZoneTypeService
	validate  *validation.Validator
	log       *zap.Logger
}

// ZoneTypeRouter registers zone type routes on the given router.
func ZoneTypeRouter(r chi.Router, zoneTypes ZoneTypeService, validate *validation.Validator, log *zap.Logger) {
	handler := &ZoneTypeHandler{zoneTypes: zoneTypes, validate: validate, log: log}

	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Route("/{zoneTypeID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Put("/", handler.Update)
		r.Delete("/", handler.Delete)
	})
}

func (h *ZoneTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.zoneTypes.List(r.Context(), queryBool(r, "includeDeleted"))
	if err != nil {
		writeInternalError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewZoneTypeResponses(items))
}

func (h *ZoneTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "zoneTypeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	zt, err := h.zoneTypes.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Zone type", id)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewZoneTypeResponse(zt))
}

func (h *ZoneTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateZoneTypeRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	zt, err := h.zoneTypes.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Zone type", 0)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/zone-types/%d", zt.ID))
	writeJSON(w, http.StatusCreated, dto.NewZoneTypeResponse(zt))
}

func (h *ZoneTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "zoneTypeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req dto.UpdateZoneTypeRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	zt, err := h.zoneTypes.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Zone type", id)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewZoneTypeResponse(zt))
}

func (h *ZoneTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "zoneTypeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.zoneTypes.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.log, err, "Zone type", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
