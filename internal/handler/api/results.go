package api

import (
	"time"

	models "SentiPull/internal/domain/models"
	domrepo "SentiPull/internal/domain/repository"
	xhttp "SentiPull/pkg/http"
	xlogger "SentiPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ResultsHandler serves read-only views over the result store.
type ResultsHandler struct {
	logger *xlogger.Logger
	store  domrepo.ResultStore
}

func NewResultsHandler(logger *xlogger.Logger, store domrepo.ResultStore) *ResultsHandler {
	return &ResultsHandler{logger: logger, store: store}
}

func (h *ResultsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/sentiment", h.Sentiment)
	g.GET("/indicators", h.Indicators)
	g.GET("/correlations", h.Correlations)
	g.GET("/report", h.Report)
	e.GET("/health", h.Health)
}

func (h *ResultsHandler) Sentiment(c echo.Context) error {
	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, to := parseWindow(req.From, req.To)

	rows, err := h.store.GetSentiment(c.Request().Context(), req.Symbol, from, to, req.Limit)
	if err != nil {
		h.logger.Error("sentiment query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *ResultsHandler) Indicators(c echo.Context) error {
	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, to := parseWindow(req.From, req.To)

	rows, err := h.store.GetIndicators(c.Request().Context(), req.Symbol, from, to, req.Limit)
	if err != nil {
		h.logger.Error("indicators query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *ResultsHandler) Correlations(c echo.Context) error {
	req := &models.CorrelationsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, err := h.store.GetCorrelations(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("correlations query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *ResultsHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.store.GetReport(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("report query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if report == nil {
		return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("no report for %s", req.Symbol))
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *ResultsHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("store unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// parseWindow resolves optional from/to strings, defaulting to the trailing
// 30 days ending now.
func parseWindow(fromStr, toStr string) (time.Time, time.Time) {
	now := time.Now().UTC()
	to := xhttp.ParseTimeDefault(toStr, now)
	from := xhttp.ParseTimeDefault(fromStr, to.AddDate(0, 0, -30))
	return from, to
}
