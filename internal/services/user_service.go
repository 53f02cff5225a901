package services

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"busgo/internal/domain"
	"busgo/internal/domain/models"
	"busgo/internal/mailer"
	"busgo/internal/repositories"
	"busgo/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

const otpTTL = 10 * time.Minute

// UserService handles registration, login and profile operations.
type UserService struct {
	UserRepo repositories.UserRepository
	Mailer   mailer.Sender

	Now       func() time.Time
	RequestID string
}

func (s UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SendOTP emails a registration code to a not-yet-registered address.
func (s UserService) SendOTP(email string) error {
	email = utils.TrimOrEmpty(email)
	if email == "" {
		return domain.ValidationError{Field: "email", Msg: "is required"}
	}
	if !utils.ValidEmail(email) {
		return domain.ValidationError{Field: "email", Msg: "invalid email"}
	}

	exists, err := s.UserRepo.EmailExists(email)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if exists {
		return domain.ValidationError{Msg: "user already exists"}
	}

	code, err := sixDigitCode()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if err := s.UserRepo.UpsertOTP(email, code, s.now().Add(otpTTL)); err != nil {
		return domain.InternalError{Err: err}
	}

	ok, err := s.Mailer.Send(email, "BusGo - OTP", fmt.Sprintf("Your OTP for BusGo is %s", code))
	if err != nil || !ok {
		return domain.UpstreamError{Service: "mail", Err: err}
	}

	utils.LogEvent(s.RequestID, "user", "send_otp", "otp issued")
	return nil
}

// Register creates a passenger account once the emailed OTP checks out.
func (s UserService) Register(name, email, otp, password string) error {
	name = utils.NormalizeSpace(name)
	email = utils.TrimOrEmpty(email)
	if name == "" || email == "" || otp == "" || password == "" {
		return domain.ValidationError{Msg: "all fields are required"}
	}
	if len(name) < 3 || len(name) > 50 {
		return domain.ValidationError{Field: "name", Msg: "must be 3-50 characters"}
	}
	if !utils.ValidEmail(email) {
		return domain.ValidationError{Field: "email", Msg: "invalid email"}
	}
	if len(password) < 8 {
		return domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}

	exists, err := s.UserRepo.EmailExists(email)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if exists {
		return domain.ValidationError{Msg: "user already exists"}
	}

	record, err := s.UserRepo.GetOTP(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ValidationError{Field: "otp", Msg: "invalid OTP"}
		}
		return domain.InternalError{Err: err}
	}
	if record.Code != otp || s.now().After(record.ExpiresAt) {
		return domain.ValidationError{Field: "otp", Msg: "invalid OTP"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.InternalError{Err: err}
	}

	if _, err := s.UserRepo.Create(models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RolePassenger,
	}); err != nil {
		return domain.InternalError{Msg: "error while creating user", Err: err}
	}

	if err := s.UserRepo.DeleteOTP(email); err != nil {
		utils.LogEvent(s.RequestID, "user", "register", "otp cleanup failed: "+err.Error())
	}
	utils.LogEvent(s.RequestID, "user", "register", "account created")
	return nil
}

// Login verifies credentials and returns the account. Token minting stays
// with the caller so this service never touches cookie mechanics.
func (s UserService) Login(email, password string) (models.User, error) {
	email = utils.TrimOrEmpty(email)
	if email == "" || password == "" {
		return models.User{}, domain.ValidationError{Msg: "all fields are required"}
	}

	user, err := s.UserRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.AuthorizationError{Msg: "invalid email or password"}
		}
		return models.User{}, domain.InternalError{Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, domain.AuthorizationError{Msg: "invalid email or password"}
	}
	return user, nil
}

// CurrentUser returns the authenticated principal's profile.
func (s UserService) CurrentUser(rc domain.RequestContext) (models.PublicUser, error) {
	user, err := s.UserRepo.GetByID(int64(rc.UserID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PublicUser{}, domain.NotFoundError{Resource: "user"}
		}
		return models.PublicUser{}, domain.InternalError{Err: err}
	}
	return user.ToPublic(), nil
}

// ChangePassword swaps the stored hash after checking the old password.
func (s UserService) ChangePassword(rc domain.RequestContext, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.ValidationError{Msg: "all fields are required"}
	}
	if len(newPassword) < 8 {
		return domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}

	user, err := s.UserRepo.GetByID(int64(rc.UserID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "user"}
		}
		return domain.InternalError{Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.AuthorizationError{Msg: "old password is incorrect"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if err := s.UserRepo.UpdatePassword(user.ID, string(hash)); err != nil {
		return domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "user", "change_password", fmt.Sprintf("user_id=%d", user.ID))
	return nil
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
