package transport

import (
	"errors"
	"net/http"

	"bistro-pos/internal/middleware"
	"bistro-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PaymentHistoryResponse is the payment history view
type PaymentHistoryResponse struct {
	Payments []PaymentRecordResponse `json:"payments"`
	Summary  PaymentSummaryResponse  `json:"summary"`
}

type PaymentSummaryResponse struct {
	Count         int    `json:"count"`
	TotalAmount   string `json:"total_amount"`
	AverageAmount string `json:"average_amount"`
}

// PaymentHandler handles HTTP requests for stored orders
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, logger: logger}
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/payments", h.History)
}

// History lists stored orders filtered by ?q=, ?status= and ?period=
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	history, err := h.paymentService.History(r.Context(), service.PaymentQuery{
		Search: q.Get("q"),
		Status: q.Get("status"),
		Period: service.Period(q.Get("period")),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) || errors.Is(err, service.ErrInvalidPeriod) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithStoreError(w, h.logger, "Failed to load payment history", err)
		return
	}

	payments := make([]PaymentRecordResponse, 0, len(history.Payments))
	for _, p := range history.Payments {
		payments = append(payments, toPaymentRecordResponse(p))
	}

	middleware.RespondWithJSON(w, http.StatusOK, PaymentHistoryResponse{
		Payments: payments,
		Summary: PaymentSummaryResponse{
			Count:         history.Summary.Count,
			TotalAmount:   money(history.Summary.TotalAmount),
			AverageAmount: money(history.Summary.AverageAmount),
		},
	})
}
