package services

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strconv"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"github.com/smarttransit/bus-booking-backend/internal/models"
)

const ticketQRSize = 256

// Ticket is a rendered e-ticket document
type Ticket struct {
	FileName string
	Content  []byte
}

// TicketService renders e-tickets for confirmed bookings
type TicketService struct {
	bookings *BookingService
}

// NewTicketService creates a new ticket service
func NewTicketService(bookings *BookingService) *TicketService {
	return &TicketService{bookings: bookings}
}

// GenerateTicket renders the PDF ticket of one of the user's bookings
func (s *TicketService) GenerateTicket(ctx context.Context, userID, bookingID int64) (*Ticket, error) {
	details, err := s.bookings.GetBookingDetails(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if details.Status != models.BookingStatusConfirmed {
		return nil, InvalidStateError{Msg: "Ticket is available only for confirmed bookings"}
	}

	qr, err := GenerateQRCode(details.BookingReference, ticketQRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+details.BookingReference, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS E-TICKET")
	pdf.Ln(12)

	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 150, 10, 45, 45, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Booking Ref : " + details.BookingReference,
		"Route       : " + details.SourceCity + " - " + details.DestinationCity,
		"Travel Date : " + details.TravelDate,
		"Departure   : " + FormatTime(details.DepartureTime),
		"Arrival     : " + FormatTime(details.ArrivalTime),
		"Bus         : " + details.BusNumber + " (" + details.BusType + ")",
		"Operator    : " + details.OperatorName,
		"Boarding    : " + details.BoardingPoint,
		"Dropping    : " + details.DroppingPoint,
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(20, 7, "Seat", "1", 0, "C", false, 0, "")
	pdf.CellFormat(90, 7, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Age", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "Gender", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, p := range details.Passengers {
		pdf.CellFormat(20, 7, p.SeatNumber, "1", 0, "C", false, 0, "")
		pdf.CellFormat(90, 7, p.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, strconv.Itoa(p.Age), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, p.Gender, "1", 1, "C", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total Paid: %.2f", details.TotalAmount))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please show this ticket and a valid photo ID while boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}

	return &Ticket{
		FileName: fmt.Sprintf("ticket-%s.pdf", details.BookingReference),
		Content:  buf.Bytes(),
	}, nil
}

// GenerateQRCode encodes content as a PNG QR code
func GenerateQRCode(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
