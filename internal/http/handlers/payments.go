package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"busgo/internal/domain"
	"busgo/internal/gateway"
	"busgo/internal/http/middleware"
	"busgo/internal/repositories"
	"busgo/internal/services"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes the payment order lifecycle and fare quotes.
type PaymentHandler struct {
	Payments      repositories.PaymentRepository
	Routes        repositories.RouteMapRepository
	Gateway       gateway.OrderCreator
	GatewayKeyID  string
	GatewaySecret string
}

func (h PaymentHandler) svc(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		PaymentRepo:   h.Payments,
		Gateway:       h.Gateway,
		GatewaySecret: h.GatewaySecret,
		GatewayKeyID:  h.GatewayKeyID,
		RequestID:     middleware.GetRequestID(c),
	}
}

// GET /api/v1/payments/apikey
func (h PaymentHandler) APIKey(c *gin.Context) {
	RespondOK(c, http.StatusOK, "API key fetched successfully", gin.H{
		"apiKey": h.svc(c).APIKey(),
	})
}

type quoteRequest struct {
	RouteID   string `json:"routeID"`
	StartStop int    `json:"startStop"`
	EndStop   int    `json:"endStop"`
	HeadCount int    `json:"headCount"`
}

// POST /api/v1/payments/calculate — fare quote, no side effects.
func (h PaymentHandler) Calculate(c *gin.Context) {
	var req quoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	route, err := h.Routes.GetByID(req.RouteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "route map"})
			return
		}
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	quote, err := domain.CalculateFare(route, req.StartStop, req.EndStop, req.HeadCount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Price calculated successfully", quote)
}

type createPaymentRequest struct {
	Amount int64 `json:"amount"`
}

// POST /api/v1/payments/create
func (h PaymentHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	orderID, err := h.svc(c).CreateOrder(c.Request.Context(), req.Amount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Payment created successfully", gin.H{"orderID": orderID})
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// POST /api/v1/payments/verify
func (h PaymentHandler) Verify(c *gin.Context) {
	var req verifyPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	order, err := h.svc(c).Verify(req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Payment verified successfully", order)
}

// GET /api/v1/payments/cancel/:orderID
func (h PaymentHandler) Cancel(c *gin.Context) {
	if err := h.svc(c).Cancel(c.Param("orderID")); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Payment canceled successfully", gin.H{})
}
