package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/pdv-backend/api/middleware"
	"github.com/angelmondragon/pdv-backend/api/responses"
	"github.com/angelmondragon/pdv-backend/api/validators"
	"github.com/angelmondragon/pdv-backend/internal/checkout"
	"github.com/angelmondragon/pdv-backend/pkg/display"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
	"github.com/angelmondragon/pdv-backend/pkg/pagination"
)

const defaultSalesWindow = 24 * time.Hour

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type receiptResponse struct {
	*checkout.Sale
	TotalFormatted string `json:"total_formatted"`
}

// Checkout finalizes the caller's cart into a sale. A rejected sale leaves the cart as it was.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		sale, err := svc.Finalize(ctx, checkout.FinalizeInput{
			SessionID:     middleware.SessionIDFromContext(ctx),
			PaymentMethod: body.PaymentMethod,
			UserID:        middleware.UserIDFromContext(ctx),
			CompanyID:     middleware.CompanyIDFromContext(ctx),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receiptResponse{Sale: sale, TotalFormatted: display.FormatBRL(sale.Total)})
	}
}

// SalesList pages through sales recorded since ?since= (default: the last 24
// hours), newest first. ?limit= and ?cursor= walk the pages; the cursor keeps
// the first page's window, which is echoed back as "since".
func SalesList(svc checkout.Service, now func() time.Time, logg *logger.Logger) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		since, err := validators.ParseQueryTime(r, "since", now().Add(-defaultSalesWindow))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListSalesPage(r.Context(), since, pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
