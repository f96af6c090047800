package services

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// NormalizedOffer is the display-ready shape of one flight offer. Immutable
// once built.
type NormalizedOffer struct {
	ID            string  `json:"id"`
	Price         float64 `json:"price"`
	PriceUSD      float64 `json:"priceUSD"`
	Currency      string  `json:"currency"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureTime string  `json:"departureTime"`
	ArrivalTime   string  `json:"arrivalTime"`
	Duration      string  `json:"duration"`
	Stops         int     `json:"stops"`
	Airline       string  `json:"airline"`
	AirlineName   string  `json:"airlineName"`
	BookingURL    string  `json:"bookingUrl"`
}

// NormalizeOffer converts one raw offer into its display shape. Fails only on
// structurally malformed offers (no itinerary, no segments, unusable price);
// the batch path logs and drops those. Conversion degrades gracefully: a nil
// snapshot or missing rate leaves PriceUSD at the original amount.
func NormalizeOffer(offer FlightOffer, rates *RateSnapshot) (NormalizedOffer, error) {
	if len(offer.Itineraries) == 0 {
		return NormalizedOffer{}, fmt.Errorf("offer has no itineraries")
	}
	outbound := offer.Itineraries[0]
	if len(outbound.Segments) == 0 {
		return NormalizedOffer{}, fmt.Errorf("outbound itinerary has no segments")
	}

	price := parsePrice(offer.Price.GrandTotal)
	if price <= 0 {
		return NormalizedOffer{}, fmt.Errorf("unusable price %q", offer.Price.GrandTotal)
	}

	first := outbound.Segments[0]
	last := outbound.Segments[len(outbound.Segments)-1]

	airlineCode := first.CarrierCode
	if airlineCode == "" && len(offer.ValidatingAirlineCodes) > 0 {
		airlineCode = offer.ValidatingAirlineCodes[0]
	}

	return NormalizedOffer{
		ID:            uuid.New().String(),
		Price:         price,
		PriceUSD:      convertToUSD(price, offer.Price.Currency, rates),
		Currency:      offer.Price.Currency,
		Origin:        first.Departure.IataCode,
		Destination:   last.Arrival.IataCode,
		DepartureTime: first.Departure.At,
		ArrivalTime:   last.Arrival.At,
		Duration:      formatDuration(outbound.Duration),
		Stops:         len(outbound.Segments) - 1,
		Airline:       airlineCode,
		AirlineName:   airlineName(airlineCode),
		BookingURL:    bookingURL(first.Departure.IataCode, last.Arrival.IataCode, first.Departure.At),
	}, nil
}

// NormalizeOffers normalizes a batch, dropping malformed offers, and ranks
// the rest by converted price ascending.
func NormalizeOffers(offers []FlightOffer, rates *RateSnapshot) []NormalizedOffer {
	normalized := make([]NormalizedOffer, 0, len(offers))
	for _, offer := range offers {
		n, err := NormalizeOffer(offer, rates)
		if err != nil {
			log.Warnf("Dropping malformed offer: %v", err)
			continue
		}
		normalized = append(normalized, n)
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].PriceUSD < normalized[j].PriceUSD
	})
	return normalized
}

// convertToUSD converts an amount into the reporting currency using the rate
// snapshot, rounding half-up to cents. Already-USD amounts skip the lookup;
// a nil snapshot or unknown currency leaves the amount unconverted.
func convertToUSD(amount float64, currency string, rates *RateSnapshot) float64 {
	if currency == ReportingCurrency || currency == "" {
		return amount
	}
	if rates == nil {
		return amount
	}
	rate, ok := rates.Rates[currency]
	if !ok || rate <= 0 {
		return amount
	}
	return math.Round(amount/rate*100) / 100
}

// formatDuration converts an ISO 8601 duration (PT6H44M) to a compact human
// string ("6h 44m"). Missing components are omitted rather than printed as
// "0h"/"0m".
func formatDuration(iso string) string {
	if iso == "" {
		return ""
	}
	iso = strings.TrimPrefix(iso, "PT")
	result := ""
	hIdx := strings.Index(iso, "H")
	mIdx := strings.Index(iso, "M")
	if hIdx >= 0 {
		result += iso[:hIdx] + "h"
		iso = iso[hIdx+1:]
		mIdx = strings.Index(iso, "M")
	}
	if mIdx >= 0 && mIdx < len(iso) {
		if result != "" {
			result += " "
		}
		result += iso[:mIdx] + "m"
	}
	return result
}

func parsePrice(s string) float64 {
	var price float64
	fmt.Sscanf(s, "%f", &price)
	return price
}

// bookingURL builds a deep link from route and departure date. Derived only;
// nothing checks that the link resolves.
func bookingURL(origin, destination, departureAt string) string {
	date := departureAt
	if i := strings.Index(date, "T"); i >= 0 {
		date = date[:i]
	}
	q := fmt.Sprintf("flights from %s to %s on %s", origin, destination, date)
	return "https://www.google.com/travel/flights?q=" + url.QueryEscape(q)
}
