package controllers

import (
	"net/http"

	"github.com/trinitystore/trinity-backend/api/responses"
	invoicesvc "github.com/trinitystore/trinity-backend/internal/invoices"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
	"github.com/trinitystore/trinity-backend/pkg/logger"
)

// Checkout converts the caller's cart into an invoice and clears the cart.
func Checkout(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		userID, err := contextUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Checkout(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}
