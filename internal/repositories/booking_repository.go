package repositories

import (
	"database/sql"
	"fmt"

	intconfig "busgo/internal/config"
	"busgo/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, conductor_id, passenger_id, route_id,
       COALESCE(route_from,''), COALESCE(route_to,''),
       COALESCE(price,0), COALESCE(head_count,0),
       COALESCE(booking_time,''), COALESCE(verified,0)`

func scanBooking(scan func(dest ...any) error) (models.Booking, error) {
	var b models.Booking
	err := scan(
		&b.ID,
		&b.ConductorID,
		&b.PassengerID,
		&b.RouteID,
		&b.From,
		&b.To,
		&b.Price,
		&b.HeadCount,
		&b.BookingTime,
		&b.Verified,
	)
	return b, err
}

// Create persists a booking and returns its id.
func (r BookingRepository) Create(b models.Booking) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO bookings (conductor_id, passenger_id, route_id, route_from, route_to,
		                      price, head_count, booking_time, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, NOW())`,
		b.ConductorID, b.PassengerID, b.RouteID, b.From, b.To,
		b.Price, b.HeadCount, b.BookingTime,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID fetches one booking.
func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, fmt.Errorf("invalid booking id")
	}
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	return scanBooking(row.Scan)
}

// ListByPassengerBetween returns a passenger's bookings whose booking_time
// falls in [from, to), ordered ascending. booking_time strings are stored
// in a lexically ordered layout so plain string comparison is correct.
func (r BookingRepository) ListByPassengerBetween(passengerID int64, from, to string) ([]models.Booking, error) {
	rows, err := r.db().Query(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE passenger_id=? AND booking_time >= ? AND booking_time < ?
		ORDER BY booking_time ASC`, passengerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// MarkVerified flips the verified flag. Idempotent: re-verifying an
// already-verified ticket touches zero rows and is not an error.
func (r BookingRepository) MarkVerified(id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid booking id")
	}
	_, err := r.db().Exec(`UPDATE bookings SET verified=1 WHERE id=?`, id)
	return err
}

// AppendHistory records a booking in a user's history index. INSERT IGNORE
// on the (user_id, booking_id) unique key gives set-once semantics, so a
// retried append is a no-op.
func (r BookingRepository) AppendHistory(userID, bookingID int64, kind string) error {
	if userID <= 0 || bookingID <= 0 {
		return fmt.Errorf("invalid history reference")
	}
	_, err := r.db().Exec(`
		INSERT IGNORE INTO booking_history (user_id, booking_id, kind)
		VALUES (?, ?, ?)`, userID, bookingID, kind)
	return err
}

// ListHistory walks a user's history index of the given kind, newest first.
func (r BookingRepository) ListHistory(userID int64, kind string) ([]models.Booking, error) {
	rows, err := r.db().Query(`
		SELECT `+prefixedBookingColumns("b")+`
		FROM booking_history h
		JOIN bookings b ON b.id = h.booking_id
		WHERE h.user_id=? AND h.kind=?
		ORDER BY b.booking_time DESC`, userID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func prefixedBookingColumns(alias string) string {
	return alias + `.id, ` + alias + `.conductor_id, ` + alias + `.passenger_id, ` + alias + `.route_id,
       COALESCE(` + alias + `.route_from,''), COALESCE(` + alias + `.route_to,''),
       COALESCE(` + alias + `.price,0), COALESCE(` + alias + `.head_count,0),
       COALESCE(` + alias + `.booking_time,''), COALESCE(` + alias + `.verified,0)`
}
