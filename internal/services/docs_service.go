package services

import (
	"bytes"
	"fmt"

	"busgo/internal/domain"
	"busgo/internal/domain/models"
	"busgo/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders printable e-tickets for bookings.
type DocsService struct {
	BookingSvc BookingService
	RequestID  string
}

// GenerateETicket renders the ticket PDF. Access follows GetTicket rules:
// admin, the ticket's passenger, or its conductor.
func (s DocsService) GenerateETicket(rc domain.RequestContext, ticketID int64) ([]byte, string, error) {
	booking, err := s.BookingSvc.GetTicket(rc, ticketID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("ticket_id=%d", ticketID))
	return buildETicketPDF(booking)
}

func buildETicketPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("BusGo E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUSGO E-TICKET")
	pdf.Ln(12)

	verified := "NO"
	if b.Verified {
		verified = "YES"
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket ID   : TCK-%d", b.ID),
		fmt.Sprintf("Route       : %s", b.RouteID),
		fmt.Sprintf("From        : %s", safe(b.From)),
		fmt.Sprintf("To          : %s", safe(b.To)),
		fmt.Sprintf("Head Count  : %d", b.HeadCount),
		fmt.Sprintf("Price       : %d INR", b.Price),
		fmt.Sprintf("Booked At   : %s", safe(b.BookingTime)),
		fmt.Sprintf("Verified    : %s", verified),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Note: this e-ticket covers all listed passengers. Please present it to the conductor for verification.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render e-ticket", Err: err}
	}
	return buf.Bytes(), fmt.Sprintf("eticket-%d.pdf", b.ID), nil
}

func safe(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
