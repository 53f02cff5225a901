package handlers

import (
	"net/http"
	"strconv"
	"time"

	"busgo/internal/http/middleware"
	"busgo/internal/mailer"
	"busgo/internal/repositories"
	"busgo/internal/services"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes ticket creation, lookup and verification.
type BookingHandler struct {
	Bookings repositories.BookingRepository
	Users    repositories.UserRepository
	Routes   repositories.RouteMapRepository
	Mail     mailer.Sender
	Loc      *time.Location
}

func (h BookingHandler) svc(c *gin.Context) services.BookingService {
	return services.BookingService{
		BookingRepo: h.Bookings,
		UserRepo:    h.Users,
		RouteRepo:   h.Routes,
		Mailer:      h.Mail,
		Loc:         h.Loc,
		RequestID:   middleware.GetRequestID(c),
	}
}

// POST /api/v1/bookings/create
func (h BookingHandler) Create(c *gin.Context) {
	rc, ok := MustPrincipal(c)
	if !ok {
		return
	}
	var req services.CreateBookingInput
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, emailSent, err := h.svc(c).CreateBooking(rc, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	message := "Booking created successfully"
	if !emailSent {
		message = "Booking created, confirmation email could not be sent"
	}
	RespondOK(c, http.StatusOK, message, gin.H{
		"booking":   booking,
		"emailSent": emailSent,
	})
}

// GET /api/v1/bookings/get-all-tickets — today's tickets for the caller.
func (h BookingHandler) TodaysTickets(c *gin.Context) {
	rc, ok := MustPrincipal(c)
	if !ok {
		return
	}
	tickets, err := h.svc(c).TodaysTickets(rc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Tickets fetched successfully", tickets)
}

// GET /api/v1/bookings/get-ticket/:ticketID
func (h BookingHandler) GetTicket(c *gin.Context) {
	rc, ok := MustPrincipal(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("ticketID"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid ticket ID", nil)
		return
	}
	ticket, err := h.svc(c).GetTicket(rc, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Ticket fetched successfully", ticket)
}

// GET /api/v1/bookings/get-ticket/:ticketID/e-ticket — PDF download.
func (h BookingHandler) ETicket(c *gin.Context) {
	rc, ok := MustPrincipal(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("ticketID"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid ticket ID", nil)
		return
	}

	docs := services.DocsService{BookingSvc: h.svc(c), RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := docs.GenerateETicket(rc, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// PUT /api/v1/bookings/verify-ticket/:ticketID  (CONDUCTOR|ADMIN)
func (h BookingHandler) VerifyTicket(c *gin.Context) {
	rc, ok := MustPrincipal(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("ticketID"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid ticket ID", nil)
		return
	}
	ticket, err := h.svc(c).VerifyTicket(rc, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Ticket verified successfully", ticket)
}

// GET /api/v1/bookings/selling-history  (CONDUCTOR|ADMIN)
func (h BookingHandler) SellingHistory(c *gin.Context) {
	rc, ok := MustPrincipal(c)
	if !ok {
		return
	}
	history, err := h.svc(c).SellingHistory(rc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Selling history fetched successfully", history)
}
