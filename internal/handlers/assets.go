package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/internal/validation"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

type AssetService interface {
	List(ctx context.Context, filter store.AssetFilter) ([]types.Asset, error)
	Get(ctx context.Context, id int) (types.Asset, error)
	Create(ctx context.Context, req dto.CreateAssetRequest) (types.Asset, error)
	Update(ctx context.Context, id int, req dto.UpdateAssetRequest) (types.Asset, error)
	Delete(ctx context.Context, id int) error
	Move(ctx context.Context, id int, req dto.MoveAssetRequest) (types.AssetLog, error)
	Logs(ctx context.Context, assetID int) ([]types.AssetLog, error)
}

// AssetHandler provides HTTP handlers for assets and their movements.
type AssetHandler struct {
	assets   AssetService
	validate *validation.Validator
	log      *zap.Logger
	now      func() time.Time
}

// AssetRouter registers asset routes on the given router.
func AssetRouter(r chi.Router, assets AssetService, validate *validation.Validator, log *zap.Logger) {
	handler := &AssetHandler{assets: assets, validate: validate, log: log, now: time.Now}

	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Route("/{assetID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Put("/", handler.Update)
		r.Delete("/", handler.Delete)
		r.Post("/move", handler.Move)
		r.Get("/logs", handler.Logs)
	})
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	zoneID, err := queryInt(r, "zoneId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.assets.List(r.Context(), store.AssetFilter{
		ZoneID:         zoneID,
		AssetType:      strings.TrimSpace(r.URL.Query().Get("assetType")),
		IncludeDeleted: queryBool(r, "includeDeleted"),
	})
	if err != nil {
		writeInternalError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAssetResponses(items, h.now()))
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	asset, err := h.assets.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Asset", id)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAssetResponse(asset, h.now()))
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAssetRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	asset, err := h.assets.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Asset", 0)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/assets/%d", asset.ID))
	writeJSON(w, http.StatusCreated, dto.NewAssetResponse(asset, h.now()))
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req dto.UpdateAssetRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	asset, err := h.assets.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Asset", id)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAssetResponse(asset, h.now()))
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.assets.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.log, err, "Asset", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move relocates an asset and returns the movement log entry.
func (h *AssetHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req dto.MoveAssetRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	entry, err := h.assets.Move(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Asset", id)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewAssetLogResponse(entry))
}

func (h *AssetHandler) Logs(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.assets.Logs(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Asset", id)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAssetLogResponses(entries))
}
