package transport

import (
	"errors"
	"net/http"
	"time"

	"bistro-pos/internal/middleware"
	"bistro-pos/internal/repository"
	"bistro-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	dateLayout        = "2006-01-02"
	defaultReportDays = 7
)

type DailySalesResponse struct {
	Day     string `json:"day"`
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

type SalesReportResponse struct {
	From              string               `json:"from"`
	To                string               `json:"to"`
	Days              []DailySalesResponse `json:"days"`
	TotalRevenue      string               `json:"total_revenue"`
	TotalOrders       int                  `json:"total_orders"`
	AverageOrderValue string               `json:"average_order_value"`
}

// ReportHandler handles HTTP requests for the reports dashboard
type ReportHandler struct {
	reportService service.ReportService
	logger        *zap.Logger
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, logger: logger, now: time.Now}
}

// RegisterRoutes registers all report routes behind authentication
func (h *ReportHandler) RegisterRoutes(r chi.Router, authMiddleware, backOffice func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware, backOffice)
		r.Get("/api/reports/sales", h.Sales)
	})
}

// Sales reports completed orders per UTC day. ?from= and ?to= are inclusive
// YYYY-MM-DD dates; the default is the last seven days.
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	today := h.now().UTC().Truncate(24 * time.Hour)
	to := today
	from := today.AddDate(0, 0, -(defaultReportDays - 1))

	var err error
	if v := q.Get("to"); v != "" {
		if to, err = time.Parse(dateLayout, v); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			return
		}
	}
	if v := q.Get("from"); v != "" {
		if from, err = time.Parse(dateLayout, v); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			return
		}
	}

	report, err := h.reportService.Sales(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			middleware.RespondWithError(w, http.StatusBadRequest, "from must not be after to")
			return
		}
		respondWithStoreError(w, h.logger, "Failed to build sales report", err)
		return
	}

	days := make([]DailySalesResponse, 0, len(report.Days))
	for _, d := range report.Days {
		days = append(days, DailySalesResponse{
			Day:     d.Day.Format(dateLayout),
			Orders:  d.Orders,
			Revenue: money(d.Revenue),
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, SalesReportResponse{
		From:              from.Format(dateLayout),
		To:                to.Format(dateLayout),
		Days:              days,
		TotalRevenue:      money(report.TotalRevenue),
		TotalOrders:       report.TotalOrders,
		AverageOrderValue: money(report.AverageOrderValue),
	})
}

// respondWithStoreError maps order store failures to 503 or 500
func respondWithStoreError(w http.ResponseWriter, logger *zap.Logger, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	if errors.Is(err, repository.ErrStoreUnavailable) {
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "order store unavailable")
		return
	}
	middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}
