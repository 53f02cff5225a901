package repositories

import (
	"database/sql"
	"fmt"

	intconfig "busgo/internal/config"
	"busgo/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create persists a freshly minted order in state CREATED.
func (r PaymentRepository) Create(p models.PaymentOrder) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO payments (order_id, amount, currency, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		p.OrderID, p.Amount, p.Currency, models.PaymentCreated,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByOrderID fetches the order by its gateway-assigned id.
func (r PaymentRepository) GetByOrderID(orderID string) (models.PaymentOrder, error) {
	if orderID == "" {
		return models.PaymentOrder{}, fmt.Errorf("empty order id")
	}
	var p models.PaymentOrder
	err := r.db().QueryRow(`
		SELECT id, order_id, COALESCE(payment_id,''), COALESCE(signature,''),
		       COALESCE(amount,0), COALESCE(currency,''), status
		FROM payments WHERE order_id=? LIMIT 1`, orderID).
		Scan(&p.ID, &p.OrderID, &p.PaymentID, &p.Signature, &p.Amount, &p.Currency, &p.Status)
	if err != nil {
		return models.PaymentOrder{}, err
	}
	return p, nil
}

// MarkPaid transitions CREATED -> PAID and records the gateway payment id
// and signature. The status predicate in the WHERE clause is the atomic
// compare-and-swap: of two racing verifies, exactly one sees an affected
// row; the loser gets false.
func (r PaymentRepository) MarkPaid(orderID, paymentID, signature string) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE payments
		SET status=?, payment_id=?, signature=?, updated_at=NOW()
		WHERE order_id=? AND status=?`,
		models.PaymentPaid, paymentID, signature, orderID, models.PaymentCreated,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkCanceled transitions CREATED -> CANCELED, same CAS shape as MarkPaid.
func (r PaymentRepository) MarkCanceled(orderID string) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE payments
		SET status=?, updated_at=NOW()
		WHERE order_id=? AND status=?`,
		models.PaymentCanceled, orderID, models.PaymentCreated,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
