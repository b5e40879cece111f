package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pdv-backend/api/responses"
	"github.com/angelmondragon/pdv-backend/internal/orders"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
)

// OrderBoard is the kitchen queue as seen by the HTTP layer.
type OrderBoard interface {
	List(ctx context.Context, status enums.OrderStatus) ([]orders.View, error)
	Advance(ctx context.Context, id string) (orders.View, error)
	Cancel(ctx context.Context, id string) (orders.View, error)
}

// OrderList returns orders newest first, optionally filtered by ?status=.
func OrderList(board OrderBoard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if board == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order board unavailable"))
			return
		}
		status := enums.OrderStatus(strings.TrimSpace(r.URL.Query().Get("status")))
		list, err := board.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrderAdvance(board OrderBoard, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(board, logg, OrderBoard.Advance)
}

func OrderCancel(board OrderBoard, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(board, logg, OrderBoard.Cancel)
}

func orderTransition(board OrderBoard, logg *logger.Logger, move func(OrderBoard, context.Context, string) (orders.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if board == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order board unavailable"))
			return
		}
		view, err := move(board, r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
