package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"courtbook/infras/otel"
	"courtbook/internal/domains/report/model/dto"
	"courtbook/internal/domains/report/service"
	"courtbook/shared/constant"
	"courtbook/transport/http/response"
)

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Get("/summary", handler.GetSummary)
	})
}

// GetSummary aggregates bookings over a date window.
// @Summary Get booking summary report
// @Description Aggregate bookings of a date window into status counts and revenue breakdowns by day and by court.
// @Tags Report
// @Accept json
// @Produce json
// @Param date_from query string true "Window start (YYYY-MM-DD)"
// @Param date_to query string true "Window end (YYYY-MM-DD)"
// @Param court_id query string false "Narrow the summary to one court"
// @Success 200 {object} response.Data[dto.SummaryResponse] "Booking summary"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/summary [get]
// @Security BearerAuth
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSummary")
	defer scope.End()

	req := dto.SummaryRequest{
		DateFrom: r.URL.Query().Get("date_from"),
		DateTo:   r.URL.Query().Get("date_to"),
		CourtID:  r.URL.Query().Get("court_id"),
	}

	summary, err := handler.service.Summary(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking summary")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking summary retrieved successfully")

	response.WithJSON(w, http.StatusOK, summary)
}
