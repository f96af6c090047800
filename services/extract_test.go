package services

import (
	"testing"
	"time"
)

func TestExtractQueryScenarios(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		expected  FlightQuery
	}{
		{
			name:      "two city names with month",
			utterance: "flights from San Francisco to New York in December",
			expected:  FlightQuery{Origin: "SFO", Destination: "JFK", RawDate: "December"},
		},
		{
			name:      "short aliases with month",
			utterance: "flights from SF to NYC in December",
			expected:  FlightQuery{Origin: "SFO", Destination: "JFK", RawDate: "December"},
		},
		{
			name:      "case insensitive city match",
			utterance: "I want to fly LONDON to PARIS",
			expected:  FlightQuery{Origin: "LHR", Destination: "CDG"},
		},
		{
			name:      "order of first appearance wins, not direction",
			utterance: "to new york from sf",
			expected:  FlightQuery{Origin: "JFK", Destination: "SFO"},
		},
		{
			name:      "alias and full name are the same city",
			utterance: "sf or san francisco to tokyo",
			expected:  FlightQuery{Origin: "SFO", Destination: "NRT"},
		},
		{
			name:      "bare codes when no city names",
			utterance: "flights from SFO to JFK",
			expected:  FlightQuery{Origin: "SFO", Destination: "JFK"},
		},
		{
			name:      "city fills origin, code fills destination",
			utterance: "fly from boston to LAX on June 5th",
			expected:  FlightQuery{Origin: "BOS", Destination: "LAX", RawDate: "June 5th"},
		},
		{
			name:      "single city leaves destination unset",
			utterance: "flights to paris please",
			expected:  FlightQuery{Origin: "CDG"},
		},
		{
			name:      "slash date phrase captured verbatim",
			utterance: "MIA to ORD for 12/25",
			expected:  FlightQuery{Origin: "MIA", Destination: "ORD", RawDate: "12/25"},
		},
		{
			name:      "code matching origin not reused for destination",
			utterance: "san francisco SFO JFK",
			expected:  FlightQuery{Origin: "SFO", Destination: "JFK"},
		},
		{
			name:      "nothing recognizable",
			utterance: "hello there",
			expected:  FlightQuery{},
		},
		{
			name:      "short alias does not match inside words",
			utterance: "all flights are delayed",
			expected:  FlightQuery{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractQuery(tt.utterance)
			if got != tt.expected {
				t.Errorf("ExtractQuery(%q) = %+v, want %+v", tt.utterance, got, tt.expected)
			}
		})
	}
}

func TestExtractQueryDeterministic(t *testing.T) {
	utterance := "flights from San Francisco to New York in December"
	first := ExtractQuery(utterance)
	for i := 0; i < 20; i++ {
		if got := ExtractQuery(utterance); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestResolveAirport(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SF", "SFO"},
		{"sf", "SFO"},
		{"san francisco", "SFO"},
		{"San Francisco", "SFO"},
		{"  New   York  ", "JFK"},
		{"nyc", "JFK"},
		{"jfk", "JFK"}, // unknown alias, upper-cased passthrough
		{"timbuktu", "TIMBUKTU"},
	}
	for _, tt := range tests {
		if got := ResolveAirport(tt.in); got != tt.want {
			t.Errorf("ResolveAirport(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty defaults to 30 days out", "", "2026-04-09"},
		{"future month this year", "December", "2026-12-15"},
		{"passed month rolls to next year", "february", "2027-02-15"},
		{"current month stays this year", "march", "2026-03-15"},
		{"day of month is not honoured", "June 5th", "2026-06-15"},
		{"unrecognized text defaults", "next week sometime", "2026-04-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.raw, now); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
