package controllers

import (
	"net/http"

	"github.com/trinitystore/trinity-backend/api/responses"
	dashboardsvc "github.com/trinitystore/trinity-backend/internal/dashboard"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
	"github.com/trinitystore/trinity-backend/pkg/logger"
)

// DashboardKPIs serves the admin dashboard aggregates.
func DashboardKPIs(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		report, err := svc.KPIs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
