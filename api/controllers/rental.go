package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/angelmondragon/pdv-backend/api/responses"
	"github.com/angelmondragon/pdv-backend/api/validators"
	"github.com/angelmondragon/pdv-backend/internal/rental"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
)

// RentalCatalog is the equipment listing as seen by the HTTP layer.
type RentalCatalog interface {
	Search(ctx context.Context, term string) []rental.View
	Categories(ctx context.Context) []string
	Scarce(ctx context.Context) []rental.View
}

// RentalItems lists equipment; ?q= searches name and category, ?scarce=true keeps only items running out.
func RentalItems(items RentalCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if items == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rental catalog unavailable"))
			return
		}
		if raw := r.URL.Query().Get("scarce"); raw != "" {
			scarce, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "scarce must be a boolean"))
				return
			}
			if scarce {
				responses.WriteSuccess(w, items.Scarce(r.Context()))
				return
			}
		}
		responses.WriteSuccess(w, items.Search(r.Context(), validators.SearchTerm(r)))
	}
}

func RentalCategories(items RentalCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if items == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rental catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, items.Categories(r.Context()))
	}
}
