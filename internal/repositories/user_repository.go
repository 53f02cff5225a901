package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	intconfig "busgo/internal/config"
	"busgo/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `id, name, email, COALESCE(phone,''), password_hash, role,
       COALESCE(bus_number,''), COALESCE(route_id,''), COALESCE(avatar_url,''),
       created_at, updated_at`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.Role,
		&u.BusNumber,
		&u.RouteID,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// GetByID fetches a user by primary key.
func (r UserRepository) GetByID(id int64) (models.User, error) {
	if id <= 0 {
		return models.User{}, fmt.Errorf("invalid user id")
	}
	row := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by unique email.
func (r UserRepository) GetByEmail(email string) (models.User, error) {
	row := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, email)
	return scanUser(row)
}

// EmailExists reports whether an account already uses the address.
func (r UserRepository) EmailExists(email string) (bool, error) {
	var n int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE email=?`, email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new user and returns its id.
func (r UserRepository) Create(u models.User) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (name, email, phone, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdatePassword replaces the stored hash.
func (r UserRepository) UpdatePassword(id int64, passwordHash string) error {
	if id <= 0 {
		return fmt.Errorf("invalid user id")
	}
	_, err := r.db().Exec(`UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?`, passwordHash, id)
	return err
}

// GetConductorByBusNumber resolves the conductor assigned to a bus.
// Returns sql.ErrNoRows when no conductor runs that bus.
func (r UserRepository) GetConductorByBusNumber(busNumber string) (models.User, error) {
	row := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE bus_number=? AND role=? LIMIT 1`,
		busNumber, "CONDUCTOR")
	return scanUser(row)
}

// ListConductorsByRoute returns conductors whose bus serves the route.
func (r UserRepository) ListConductorsByRoute(routeID string) ([]models.PublicUser, error) {
	rows, err := r.db().Query(`
		SELECT id, name, COALESCE(phone,''), COALESCE(bus_number,'')
		FROM users
		WHERE route_id=? AND role=?
		ORDER BY bus_number ASC`, routeID, "CONDUCTOR")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PublicUser{}
	for rows.Next() {
		var u models.PublicUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Phone, &u.BusNumber); err != nil {
			return nil, err
		}
		u.Role = "CONDUCTOR"
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpsertOTP stores or replaces the registration code for an address.
func (r UserRepository) UpsertOTP(email, code string, expiresAt time.Time) error {
	_, err := r.db().Exec(`
		INSERT INTO otps (email, code, expires_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE code=VALUES(code), expires_at=VALUES(expires_at)`,
		email, code, expiresAt,
	)
	return err
}

// GetOTP fetches the pending registration code for an address, if any.
func (r UserRepository) GetOTP(email string) (models.OTP, error) {
	var o models.OTP
	err := r.db().QueryRow(`SELECT email, code, expires_at FROM otps WHERE email=? LIMIT 1`, email).
		Scan(&o.Email, &o.Code, &o.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.OTP{}, err
	}
	return o, err
}

// DeleteOTP consumes a used registration code.
func (r UserRepository) DeleteOTP(email string) error {
	_, err := r.db().Exec(`DELETE FROM otps WHERE email=?`, email)
	return err
}
