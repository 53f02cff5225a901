package services

import (
	"context"
	"database/sql"
	"testing"

	"busgo/internal/domain"
	"busgo/internal/domain/models"
	"busgo/internal/gateway"
	"busgo/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

const testSecret = "gateway-test-secret"

type fakeGateway struct {
	orderID string
	err     error

	gotAmount   int64
	gotCurrency string
	calls       int
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, currency string) (gateway.Order, error) {
	g.calls++
	g.gotAmount = amountMinor
	g.gotCurrency = currency
	if g.err != nil {
		return gateway.Order{}, g.err
	}
	return gateway.Order{ID: g.orderID, Amount: amountMinor, Currency: currency, Status: "created"}, nil
}

func newPaymentService(t *testing.T, gw gateway.OrderCreator) (PaymentService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := PaymentService{
		PaymentRepo:   repositories.PaymentRepository{DB: db},
		Gateway:       gw,
		GatewaySecret: testSecret,
		GatewayKeyID:  "rzp_test_key",
	}
	return svc, mock, func() { db.Close() }
}

func paymentRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_id", "payment_id", "signature", "amount", "currency", "status"}).
		AddRow(1, "order_abc", "", "", 500, "INR", status)
}

func TestCreateOrderPersistsCreated(t *testing.T) {
	gw := &fakeGateway{orderID: "order_abc"}
	svc, mock, done := newPaymentService(t, gw)
	defer done()

	mock.ExpectExec("INSERT INTO payments").
		WithArgs("order_abc", int64(500), "INR", models.PaymentCreated).
		WillReturnResult(sqlmock.NewResult(1, 1))

	orderID, err := svc.CreateOrder(context.Background(), 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orderID != "order_abc" {
		t.Fatalf("order id: got %q want order_abc", orderID)
	}
	if gw.gotAmount != 50000 {
		t.Fatalf("gateway amount should be in minor units: got %d want 50000", gw.gotAmount)
	}
	if gw.gotCurrency != "INR" {
		t.Fatalf("gateway currency: got %q", gw.gotCurrency)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	gw := &fakeGateway{orderID: "order_abc"}
	svc, _, done := newPaymentService(t, gw)
	defer done()

	for _, amount := range []int64{0, -5} {
		if _, err := svc.CreateOrder(context.Background(), amount); !domain.IsValidation(err) {
			t.Fatalf("amount %d: expected validation error, got %v", amount, err)
		}
	}
	if gw.calls != 0 {
		t.Fatalf("gateway should not be called for invalid amounts")
	}
}

func TestCreateOrderSurfacesGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: domain.UpstreamError{Service: "payment gateway"}}
	svc, _, done := newPaymentService(t, gw)
	defer done()

	if _, err := svc.CreateOrder(context.Background(), 100); !domain.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestVerifyTransitionsToPaid(t *testing.T) {
	svc, mock, done := newPaymentService(t, &fakeGateway{})
	defer done()

	sig := signPayment(testSecret, "order_abc", "pay_123")

	mock.ExpectQuery("FROM payments").WithArgs("order_abc").
		WillReturnRows(paymentRow(models.PaymentCreated))
	mock.ExpectExec("UPDATE payments").
		WithArgs(models.PaymentPaid, "pay_123", sig, "order_abc", models.PaymentCreated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	order, err := svc.Verify("order_abc", "pay_123", sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != models.PaymentPaid {
		t.Fatalf("status: got %s want PAID", order.Status)
	}
	if order.PaymentID != "pay_123" || order.Signature != sig {
		t.Fatalf("payment details not recorded: %+v", order)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyRejectsNonPendingOrder(t *testing.T) {
	for _, status := range []string{models.PaymentPaid, models.PaymentCanceled, models.PaymentFailed} {
		svc, mock, done := newPaymentService(t, &fakeGateway{})

		sig := signPayment(testSecret, "order_abc", "pay_123")
		mock.ExpectQuery("FROM payments").WithArgs("order_abc").
			WillReturnRows(paymentRow(status))

		if _, err := svc.Verify("order_abc", "pay_123", sig); !domain.IsConflict(err) {
			t.Fatalf("status %s: expected conflict, got %v", status, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("status %s: unexpected DB writes: %v", status, err)
		}
		done()
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	svc, mock, done := newPaymentService(t, &fakeGateway{})
	defer done()

	sig := signPayment(testSecret, "order_abc", "pay_123")
	tampered := []byte(sig)
	if tampered[0] == '0' {
		tampered[0] = '1'
	} else {
		tampered[0] = '0'
	}

	mock.ExpectQuery("FROM payments").WithArgs("order_abc").
		WillReturnRows(paymentRow(models.PaymentCreated))

	if _, err := svc.Verify("order_abc", "pay_123", string(tampered)); !domain.IsIntegrity(err) {
		t.Fatalf("expected integrity error, got %v", err)
	}

	// The order must stay CREATED: no UPDATE may have run.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("order mutated on signature mismatch: %v", err)
	}
}

func TestVerifyLosesRace(t *testing.T) {
	svc, mock, done := newPaymentService(t, &fakeGateway{})
	defer done()

	sig := signPayment(testSecret, "order_abc", "pay_123")

	// Status reads CREATED, but the conditional update affects zero rows:
	// a concurrent verify or cancel won the swap.
	mock.ExpectQuery("FROM payments").WithArgs("order_abc").
		WillReturnRows(paymentRow(models.PaymentCreated))
	mock.ExpectExec("UPDATE payments").
		WithArgs(models.PaymentPaid, "pay_123", sig, "order_abc", models.PaymentCreated).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := svc.Verify("order_abc", "pay_123", sig); !domain.IsConflict(err) {
		t.Fatalf("expected conflict for lost race, got %v", err)
	}
}

func TestVerifyUnknownOrder(t *testing.T) {
	svc, mock, done := newPaymentService(t, &fakeGateway{})
	defer done()

	mock.ExpectQuery("FROM payments").WithArgs("order_zzz").
		WillReturnError(sql.ErrNoRows)

	sig := signPayment(testSecret, "order_zzz", "pay_123")
	if _, err := svc.Verify("order_zzz", "pay_123", sig); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestCancelPendingOrder(t *testing.T) {
	svc, mock, done := newPaymentService(t, &fakeGateway{})
	defer done()

	mock.ExpectQuery("FROM payments").WithArgs("order_abc").
		WillReturnRows(paymentRow(models.PaymentCreated))
	mock.ExpectExec("UPDATE payments").
		WithArgs(models.PaymentCanceled, "order_abc", models.PaymentCreated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.Cancel("order_abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCancelTerminalOrderConflicts(t *testing.T) {
	for _, status := range []string{models.PaymentPaid, models.PaymentCanceled} {
		svc, mock, done := newPaymentService(t, &fakeGateway{})

		mock.ExpectQuery("FROM payments").WithArgs("order_abc").
			WillReturnRows(paymentRow(status))
		mock.ExpectExec("UPDATE payments").
			WithArgs(models.PaymentCanceled, "order_abc", models.PaymentCreated).
			WillReturnResult(sqlmock.NewResult(0, 0))

		if err := svc.Cancel("order_abc"); !domain.IsConflict(err) {
			t.Fatalf("status %s: expected conflict, got %v", status, err)
		}
		done()
	}
}

func TestSignPaymentIsDeterministic(t *testing.T) {
	a := signPayment("s", "o", "p")
	b := signPayment("s", "o", "p")
	if a != b {
		t.Fatalf("signature not deterministic")
	}
	if a == signPayment("other", "o", "p") {
		t.Fatalf("signature ignores secret")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256 length 64, got %d", len(a))
	}
}
