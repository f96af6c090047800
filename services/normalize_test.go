package services

import (
	"strings"
	"testing"
)

func makeOffer(total, currency, duration string, segments ...Segment) FlightOffer {
	var offer FlightOffer
	offer.Price.GrandTotal = total
	offer.Price.Currency = currency
	offer.Itineraries = []Itinerary{{Duration: duration, Segments: segments}}
	return offer
}

func seg(carrier, from, fromAt, to, toAt string) Segment {
	return Segment{
		Departure:   SegmentPoint{IataCode: from, At: fromAt},
		Arrival:     SegmentPoint{IataCode: to, At: toAt},
		CarrierCode: carrier,
	}
}

func TestNormalizeOfferDerivations(t *testing.T) {
	offer := makeOffer("412.00", "USD", "PT9H10M",
		seg("AA", "SFO", "2026-12-15T08:30:00", "ORD", "2026-12-15T14:05:00"),
		seg("AA", "ORD", "2026-12-15T15:20:00", "JFK", "2026-12-15T18:40:00"),
	)

	n, err := NormalizeOffer(offer, nil)
	if err != nil {
		t.Fatalf("NormalizeOffer: %v", err)
	}

	if n.Origin != "SFO" || n.Destination != "JFK" {
		t.Errorf("route = %s-%s, want SFO-JFK", n.Origin, n.Destination)
	}
	if n.Stops != 1 {
		t.Errorf("stops = %d, want 1", n.Stops)
	}
	if n.DepartureTime != "2026-12-15T08:30:00" || n.ArrivalTime != "2026-12-15T18:40:00" {
		t.Errorf("times = %s / %s", n.DepartureTime, n.ArrivalTime)
	}
	if n.Duration != "9h 10m" {
		t.Errorf("duration = %q, want 9h 10m", n.Duration)
	}
	if n.Airline != "AA" || n.AirlineName != "American Airlines" {
		t.Errorf("airline = %s / %s", n.Airline, n.AirlineName)
	}
	if n.ID == "" {
		t.Error("expected a generated offer ID")
	}
	if !strings.Contains(n.BookingURL, "SFO") || !strings.Contains(n.BookingURL, "JFK") ||
		!strings.Contains(n.BookingURL, "2026-12-15") {
		t.Errorf("booking URL missing route or date: %q", n.BookingURL)
	}
}

func TestNormalizeOfferUnknownCarrierPassesThrough(t *testing.T) {
	offer := makeOffer("100.00", "USD", "PT2H",
		seg("Z9", "BOS", "2026-12-15T08:00:00", "DCA", "2026-12-15T10:00:00"))

	n, err := NormalizeOffer(offer, nil)
	if err != nil {
		t.Fatalf("NormalizeOffer: %v", err)
	}
	if n.AirlineName != "Z9" {
		t.Errorf("AirlineName = %q, want raw code Z9", n.AirlineName)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		iso  string
		want string
	}{
		{"PT6H44M", "6h 44m"},
		{"PT50M", "50m"},
		{"PT6H", "6h"},
		{"PT12H5M", "12h 5m"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.iso); got != tt.want {
			t.Errorf("formatDuration(%q) = %q, want %q", tt.iso, got, tt.want)
		}
	}
}

func TestConvertToUSD(t *testing.T) {
	snapshot := &RateSnapshot{
		Base:  "USD",
		Rates: map[string]float64{"EUR": 0.9, "GBP": 0.8},
	}

	tests := []struct {
		name     string
		amount   float64
		currency string
		rates    *RateSnapshot
		want     float64
	}{
		{"reporting currency untouched", 312.40, "USD", snapshot, 312.40},
		{"eur converted and rounded", 110, "EUR", snapshot, 122.22},
		{"gbp converted", 200, "GBP", snapshot, 250},
		{"nil snapshot degrades to original", 110, "EUR", nil, 110},
		{"unknown currency degrades to original", 110, "XXX", snapshot, 110},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertToUSD(tt.amount, tt.currency, tt.rates); got != tt.want {
				t.Errorf("convertToUSD(%v, %s) = %v, want %v", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestNormalizeOfferUSDSkipsRateLookup(t *testing.T) {
	// Snapshot deliberately carries a bogus USD rate; an already-USD price
	// must not touch it.
	snapshot := &RateSnapshot{Base: "USD", Rates: map[string]float64{"USD": 2}}
	offer := makeOffer("150.00", "USD", "PT1H",
		seg("DL", "JFK", "2026-12-15T08:00:00", "BOS", "2026-12-15T09:00:00"))

	n, err := NormalizeOffer(offer, snapshot)
	if err != nil {
		t.Fatalf("NormalizeOffer: %v", err)
	}
	if n.PriceUSD != n.Price {
		t.Errorf("PriceUSD = %v, want %v unchanged", n.PriceUSD, n.Price)
	}
}

func TestNormalizeOfferMalformed(t *testing.T) {
	var noItineraries FlightOffer
	noItineraries.Price.GrandTotal = "100.00"
	if _, err := NormalizeOffer(noItineraries, nil); err == nil {
		t.Error("expected error for offer without itineraries")
	}

	noSegments := makeOffer("100.00", "USD", "PT1H")
	if _, err := NormalizeOffer(noSegments, nil); err == nil {
		t.Error("expected error for itinerary without segments")
	}

	badPrice := makeOffer("free", "USD", "PT1H",
		seg("AA", "SFO", "2026-12-15T08:00:00", "LAX", "2026-12-15T09:30:00"))
	if _, err := NormalizeOffer(badPrice, nil); err == nil {
		t.Error("expected error for unusable price")
	}
}

func TestNormalizeOffersDropsMalformedAndRanksByPrice(t *testing.T) {
	offers := []FlightOffer{
		makeOffer("300.00", "USD", "PT3H",
			seg("UA", "SFO", "2026-12-15T08:00:00", "DEN", "2026-12-15T11:00:00")),
		{}, // malformed, dropped
		makeOffer("120.00", "USD", "PT3H",
			seg("WN", "SFO", "2026-12-15T09:00:00", "DEN", "2026-12-15T12:00:00")),
	}

	normalized := NormalizeOffers(offers, nil)
	if len(normalized) != 2 {
		t.Fatalf("expected 2 offers after dropping malformed, got %d", len(normalized))
	}
	if normalized[0].PriceUSD != 120 || normalized[1].PriceUSD != 300 {
		t.Errorf("offers not ranked by price: %v then %v", normalized[0].PriceUSD, normalized[1].PriceUSD)
	}
}
