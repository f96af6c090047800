package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type OfferSheet struct {
	Origin        string
	Destination   string
	DepartureDate string
	Offers        []NormalizedOffer
}

// GenerateOfferSheet renders the offers a user was shown into a PDF and
// returns the raw bytes (no filesystem involved).
func GenerateOfferSheet(sheet OfferSheet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "FlightChat", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Flight Search Results", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	// ── Section Helper ───────────────────────────────────────
	sectionHeader := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	// ── Search Overview ───────────────────────────────────────
	sectionHeader("Search Overview")
	row("Route", fmt.Sprintf("%s -> %s", sheet.Origin, sheet.Destination))
	row("Departure", fmtDateReadable(sheet.DepartureDate))
	row("Generated", time.Now().UTC().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	// ── Offers ────────────────────────────────────────────────
	for i, offer := range sheet.Offers {
		sectionHeader(fmt.Sprintf("Option %d — %s", i+1, offer.AirlineName))
		row("Flight", formatFlightLeg(offer.DepartureTime, offer.ArrivalTime, offer.Duration))
		stops := "Direct"
		if offer.Stops > 0 {
			stops = fmt.Sprintf("%d stop(s)", offer.Stops)
		}
		row("Stops", stops)
		price := fmt.Sprintf("$%.2f USD", offer.PriceUSD)
		if offer.Currency != "" && offer.Currency != ReportingCurrency {
			price += fmt.Sprintf(" (%.2f %s)", offer.Price, offer.Currency)
		}
		row("Price", price)
		if offer.BookingURL != "" {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.SetTextColor(60, 90, 160)
			pdf.MultiCell(170, 5, offer.BookingURL, "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(4)
	}

	// ── Footer ────────────────────────────────────────────────
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated by FlightChat · Not a booking confirmation · Prices subject to change",
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func fmtDateReadable(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02 Jan 2006 (Mon)")
}

func formatFlightLeg(dep, arr, dur string) string {
	depT, err1 := time.Parse("2006-01-02T15:04:05", dep)
	arrT, err2 := time.Parse("2006-01-02T15:04:05", arr)
	if err1 != nil || err2 != nil {
		if dep != "" && arr != "" {
			return dep + " -> " + arr
		}
		return "N/A"
	}
	result := fmt.Sprintf("%s -> %s",
		depT.Format("02 Jan 15:04"),
		arrT.Format("02 Jan 15:04"))
	if dur != "" {
		result += fmt.Sprintf(" (%s)", dur)
	}
	return result
}
