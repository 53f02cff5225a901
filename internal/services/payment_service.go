package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"busgo/internal/domain"
	"busgo/internal/domain/models"
	"busgo/internal/gateway"
	"busgo/internal/repositories"
	"busgo/internal/utils"
)

// PaymentService drives the payment order lifecycle:
// CREATED -> PAID via signature verification, CREATED -> CANCELED on
// explicit cancel. PAID and CANCELED are terminal.
type PaymentService struct {
	PaymentRepo repositories.PaymentRepository
	Gateway     gateway.OrderCreator

	// Shared secret for callback signature verification.
	GatewaySecret string
	// Public key id handed to clients for checkout.
	GatewayKeyID string

	RequestID string
}

// APIKey returns the public gateway key id for client-side checkout.
func (s PaymentService) APIKey() string {
	return s.GatewayKeyID
}

// CreateOrder mints a gateway order for the amount (whole currency units)
// and persists it in state CREATED. Only the order id goes back to the
// caller; amount and currency are server-held values.
func (s PaymentService) CreateOrder(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", domain.ValidationError{Field: "amount", Msg: "must be greater than 0"}
	}

	// The gateway bills in minor units.
	order, err := s.Gateway.CreateOrder(ctx, amount*100, "INR")
	if err != nil {
		return "", err
	}

	if _, err := s.PaymentRepo.Create(models.PaymentOrder{
		OrderID:  order.ID,
		Amount:   amount,
		Currency: order.Currency,
	}); err != nil {
		return "", domain.InternalError{Msg: "failed to record payment order", Err: err}
	}

	utils.LogEvent(s.RequestID, "payment", "create", "order_id="+order.ID)
	return order.ID, nil
}

// Verify reconciles a gateway callback against the stored order. The order
// must still be CREATED; the HMAC signature must match byte-exactly. A
// mismatch leaves the order in CREATED so the caller may retry or cancel.
func (s PaymentService) Verify(orderID, paymentID, signature string) (models.PaymentOrder, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return models.PaymentOrder{}, domain.ValidationError{Msg: "all fields are required"}
	}

	order, err := s.PaymentRepo.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PaymentOrder{}, domain.NotFoundError{Resource: "payment order"}
		}
		return models.PaymentOrder{}, domain.InternalError{Err: err}
	}
	if order.Status != models.PaymentCreated {
		return models.PaymentOrder{}, domain.ConflictError{
			Resource: "payment order",
			Msg:      fmt.Sprintf("status is %s, expected %s", order.Status, models.PaymentCreated),
		}
	}

	expected := signPayment(s.GatewaySecret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		utils.LogEvent(s.RequestID, "payment", "verify", "signature mismatch order_id="+orderID)
		return models.PaymentOrder{}, domain.IntegrityError{Msg: "invalid payment details"}
	}

	swapped, err := s.PaymentRepo.MarkPaid(orderID, paymentID, signature)
	if err != nil {
		return models.PaymentOrder{}, domain.InternalError{Err: err}
	}
	if !swapped {
		// Lost the race: another verify or a cancel moved the order out
		// of CREATED between our read and the update.
		return models.PaymentOrder{}, domain.ConflictError{Resource: "payment order", Msg: "no longer pending"}
	}

	order.Status = models.PaymentPaid
	order.PaymentID = paymentID
	order.Signature = signature
	utils.LogEvent(s.RequestID, "payment", "verify", "paid order_id="+orderID)
	return order, nil
}

// Cancel transitions a pending order to CANCELED. Canceling an order that
// is already PAID or CANCELED is a conflict, not a silent success.
func (s PaymentService) Cancel(orderID string) error {
	if orderID == "" {
		return domain.ValidationError{Field: "orderID", Msg: "is required"}
	}

	if _, err := s.PaymentRepo.GetByOrderID(orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "payment order"}
		}
		return domain.InternalError{Err: err}
	}

	swapped, err := s.PaymentRepo.MarkCanceled(orderID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if !swapped {
		return domain.ConflictError{Resource: "payment order", Msg: "no longer pending"}
	}

	utils.LogEvent(s.RequestID, "payment", "cancel", "order_id="+orderID)
	return nil
}

// signPayment computes the gateway callback signature:
// hex(HMAC-SHA256(secret, orderID|paymentID)).
func signPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
