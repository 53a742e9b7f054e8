package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

type AlertService interface {
	List(ctx context.Context, filter store.AlertFilter) ([]types.Alert, error)
	Get(ctx context.Context, id int) (types.Alert, error)
	MarkRead(ctx context.Context, id int) (types.Alert, error)
	Delete(ctx context.Context, id int) error
}

// AlertHandler provides HTTP handlers for alerts.
type AlertHandler struct {
	alerts AlertService
	log    *zap.Logger
}

// AlertRouter registers alert routes on the given router.
func AlertRouter(r chi.Router, alerts AlertService, log *zap.Logger) {
	handler := &AlertHandler{alerts: alerts, log: log}

	r.Get("/", handler.List)
	r.Route("/{alertID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Delete("/", handler.Delete)
		r.Put("/read", handler.MarkRead)
	})
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	assetID, err := queryInt(r, "assetId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	zoneID, err := queryInt(r, "zoneId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.alerts.List(r.Context(), store.AlertFilter{
		UnreadOnly: queryBool(r, "unread"),
		AssetID:    assetID,
		ZoneID:     zoneID,
	})
	if err != nil {
		writeInternalError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAlertResponses(items))
}

func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "alertID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	alert, err := h.alerts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Alert", id)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAlertResponse(alert))
}

func (h *AlertHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "alertID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	alert, err := h.alerts.MarkRead(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Alert", id)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAlertResponse(alert))
}

func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "alertID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.alerts.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.log, err, "Alert", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
