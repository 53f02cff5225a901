package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"busgo/internal/domain"
	"busgo/internal/domain/models"
	"busgo/internal/mailer"
	"busgo/internal/repositories"
	"busgo/internal/utils"
)

// BookingService creates and serves tickets. A booking ties one passenger,
// one conductor, and a route segment; the price is always derived
// server-side from the route's fare chart.
type BookingService struct {
	BookingRepo repositories.BookingRepository
	UserRepo    repositories.UserRepository
	RouteRepo   repositories.RouteMapRepository
	Mailer      mailer.Sender

	Loc       *time.Location
	Now       func() time.Time
	RequestID string
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s BookingService) loc() *time.Location {
	if s.Loc != nil {
		return s.Loc
	}
	return time.UTC
}

// CreateBookingInput is what the client is trusted with: labels and
// positions only. Conductor identity and price are resolved server-side.
type CreateBookingInput struct {
	BusNumber string `json:"busNumber"`
	RouteID   string `json:"routeID"`
	From      string `json:"from"`
	To        string `json:"to"`
	HeadCount int    `json:"headCount"`
}

// CreateBooking persists a ticket for the authenticated passenger.
// The returned bool reports whether the confirmation mail went out; a
// failed mail or history append degrades the result but never rolls back
// the booking (the ticket record is the source of truth).
func (s BookingService) CreateBooking(rc domain.RequestContext, in CreateBookingInput) (models.Booking, bool, error) {
	if in.BusNumber == "" || in.RouteID == "" || in.From == "" || in.To == "" || in.HeadCount == 0 {
		return models.Booking{}, false, domain.ValidationError{Msg: "all fields are required"}
	}
	if in.HeadCount < 1 || in.HeadCount > 10 {
		return models.Booking{}, false, domain.ValidationError{Field: "headCount", Msg: "must be between 1 and 10"}
	}
	if len(in.From) > 50 || len(in.To) > 50 {
		return models.Booking{}, false, domain.ValidationError{Msg: "stop labels must be at most 50 characters"}
	}

	conductor, err := s.UserRepo.GetConductorByBusNumber(in.BusNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, false, domain.ValidationError{Field: "busNumber", Msg: "invalid conductor"}
		}
		return models.Booking{}, false, domain.InternalError{Err: err}
	}
	if conductor.Role != domain.RoleConductor {
		return models.Booking{}, false, domain.ValidationError{Field: "busNumber", Msg: "invalid conductor"}
	}
	if domain.ID(conductor.ID) == rc.UserID {
		return models.Booking{}, false, domain.ValidationError{Msg: "conductor and passenger must differ"}
	}

	route, err := s.RouteRepo.GetByID(in.RouteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, false, domain.ValidationError{Field: "routeID", Msg: "invalid route ID"}
		}
		return models.Booking{}, false, domain.InternalError{Err: err}
	}

	from, ok := route.StopByName(in.From)
	if !ok {
		return models.Booking{}, false, domain.ValidationError{Field: "from", Msg: "stop is not on this route"}
	}
	to, ok := route.StopByName(in.To)
	if !ok {
		return models.Booking{}, false, domain.ValidationError{Field: "to", Msg: "stop is not on this route"}
	}

	quote, err := domain.CalculateFare(route, from.StopNumber, to.StopNumber, in.HeadCount)
	if err != nil {
		return models.Booking{}, false, err
	}
	price := int64(quote.TotalPrice)
	if price < 0 || price > 10000 {
		return models.Booking{}, false, domain.ValidationError{Field: "price", Msg: "computed price is out of range"}
	}

	booking := models.Booking{
		ConductorID: conductor.ID,
		PassengerID: int64(rc.UserID),
		RouteID:     route.RouteID,
		From:        in.From,
		To:          in.To,
		Price:       price,
		HeadCount:   in.HeadCount,
		BookingTime: utils.FormatDateTime(s.now(), s.loc()),
	}

	id, err := s.BookingRepo.Create(booking)
	if err != nil {
		return models.Booking{}, false, domain.InternalError{Msg: "error while creating booking", Err: err}
	}
	booking.ID = id

	// History indexes are best-effort secondary structures: an append
	// failure is logged for retry, never a rollback of the booking.
	if err := s.BookingRepo.AppendHistory(booking.PassengerID, id, models.HistoryPassenger); err != nil {
		utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("passenger history append failed booking_id=%d: %v", id, err))
	}
	if err := s.BookingRepo.AppendHistory(booking.ConductorID, id, models.HistoryConductor); err != nil {
		utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("conductor history append failed booking_id=%d: %v", id, err))
	}

	emailSent := s.sendConfirmation(rc, booking)
	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("booking_id=%d price=%d email_sent=%t", id, price, emailSent))
	return booking, emailSent, nil
}

func (s BookingService) sendConfirmation(rc domain.RequestContext, b models.Booking) bool {
	if s.Mailer == nil {
		return false
	}
	passenger, err := s.UserRepo.GetByID(int64(rc.UserID))
	if err != nil {
		utils.LogEvent(s.RequestID, "booking", "notify", fmt.Sprintf("passenger lookup failed booking_id=%d: %v", b.ID, err))
		return false
	}

	subject := "Booking Confirmation: Your BusGo Ticket Details"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour booking with BusGo has been confirmed.\n\n"+
			"Booking ID: %d\nRoute: %s\nFrom: %s\nTo: %s\nHead Count: %d\nPrice: %d INR\nBooked At: %s\n\n"+
			"We wish you a pleasant journey!\nBusGo Team\n",
		passenger.Name, b.ID, b.RouteID, b.From, b.To, b.HeadCount, b.Price, b.BookingTime,
	)

	ok, err := s.Mailer.Send(passenger.Email, subject, body)
	if err != nil || !ok {
		utils.LogEvent(s.RequestID, "booking", "notify", fmt.Sprintf("confirmation mail failed booking_id=%d: %v", b.ID, err))
		return false
	}
	return true
}

// GetTicket returns a booking to its passenger, its conductor, or an admin.
func (s BookingService) GetTicket(rc domain.RequestContext, ticketID int64) (models.Booking, error) {
	b, err := s.BookingRepo.GetByID(ticketID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "ticket"}
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}

	uid := int64(rc.UserID)
	if !rc.IsAdmin() && uid != b.PassengerID && uid != b.ConductorID {
		return models.Booking{}, domain.AuthorizationError{Msg: "this ticket belongs to someone else"}
	}
	return b, nil
}

// VerifyTicket marks a ticket inspected. Conductors and admins only; the
// transition is one-way and re-verifying is not an error.
func (s BookingService) VerifyTicket(rc domain.RequestContext, ticketID int64) (models.Booking, error) {
	if rc.Role != domain.RoleConductor && rc.Role != domain.RoleAdmin {
		return models.Booking{}, domain.AuthorizationError{Msg: "only conductors and admins can verify tickets"}
	}

	b, err := s.BookingRepo.GetByID(ticketID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "ticket"}
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}

	if !b.Verified {
		if err := s.BookingRepo.MarkVerified(ticketID); err != nil {
			return models.Booking{}, domain.InternalError{Err: err}
		}
		b.Verified = true
	}
	utils.LogEvent(s.RequestID, "booking", "verify", fmt.Sprintf("ticket_id=%d by user_id=%d", ticketID, rc.UserID))
	return b, nil
}

// TodaysTickets lists the passenger's bookings for the current operator
// day, oldest first.
func (s BookingService) TodaysTickets(rc domain.RequestContext) ([]models.Booking, error) {
	from, to := utils.DayBounds(s.now(), s.loc())
	tickets, err := s.BookingRepo.ListByPassengerBetween(int64(rc.UserID), from, to)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return tickets, nil
}

// SellingHistory walks the conductor's side of the booking history index.
func (s BookingService) SellingHistory(rc domain.RequestContext) ([]models.Booking, error) {
	if rc.Role != domain.RoleConductor && rc.Role != domain.RoleAdmin {
		return nil, domain.AuthorizationError{Msg: "only conductors and admins can view selling history"}
	}
	history, err := s.BookingRepo.ListHistory(int64(rc.UserID), models.HistoryConductor)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return history, nil
}
