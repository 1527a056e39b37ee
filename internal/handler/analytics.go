package handler

import (
	"net/http"

	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/service"
	"github.com/segyhp/microloan-engine/pkg/response"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// DashboardOverview handles GET /dashboard/overview. The response may be
// served from the analytics cache and trail recent approvals by up to
// ANALYTICS_CACHE_TTL; generated_at tells when it was computed.
func (h *AnalyticsHandler) DashboardOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.DashboardOverview(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, overview)
}

// ProfitAnalytics handles GET /analytics/profit?filter=monthly&year=2024&month=3
// (also quarter=, or start_date=/end_date= for custom windows)
func (h *AnalyticsHandler) ProfitAnalytics(w http.ResponseWriter, r *http.Request) {
	request := domain.ProfitAnalyticsRequest{FilterType: r.URL.Query().Get("filter")}

	var err error
	if request.Year, err = queryIntPtr(r, "year"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if request.Month, err = queryIntPtr(r, "month"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if request.Quarter, err = queryIntPtr(r, "quarter"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if request.StartDate, err = queryDate(r, "start_date"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if request.EndDate, err = queryDate(r, "end_date"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	report, err := h.service.ProfitAnalytics(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, report)
}
