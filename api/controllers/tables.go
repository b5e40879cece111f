package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pdv-backend/api/responses"
	"github.com/angelmondragon/pdv-backend/api/validators"
	"github.com/angelmondragon/pdv-backend/internal/tables"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
)

// FloorPlan is the dining room as seen by the HTTP layer.
type FloorPlan interface {
	List(ctx context.Context, status enums.TableStatus) ([]tables.View, error)
	UpdateStatus(ctx context.Context, id string, status enums.TableStatus) (tables.View, error)
	Occupancy(ctx context.Context) tables.Occupancy
}

type tableListResponse struct {
	Tables    []tables.View    `json:"tables"`
	Occupancy tables.Occupancy `json:"occupancy"`
}

type tableStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func TableList(board FloorPlan, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if board == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "floor plan unavailable"))
			return
		}
		status := enums.TableStatus(strings.TrimSpace(r.URL.Query().Get("status")))
		list, err := board.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tableListResponse{Tables: list, Occupancy: board.Occupancy(r.Context())})
	}
}

func TableUpdateStatus(board FloorPlan, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if board == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "floor plan unavailable"))
			return
		}
		var body tableStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := board.UpdateStatus(r.Context(), chi.URLParam(r, "id"), enums.TableStatus(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
