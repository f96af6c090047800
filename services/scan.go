package services

import (
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DatePricePoint is the cheapest price found for one day of the scan window.
// A nil Price marks a failed or empty search for that day, not a free flight.
type DatePricePoint struct {
	Date  string   `json:"date"`
	Price *float64 `json:"price"`
}

type flightSearcher interface {
	SearchFlights(SearchParams) ([]FlightOffer, error)
}

// ScanAlternativeDates searches every day in [-daysBefore, +daysAfter] around
// baseDate (excluding the base date itself) for the single cheapest offer.
// Per-day searches run concurrently; each only reads the shared token cache
// and writes its own slot. A failed day becomes a nil-priced point instead of
// cancelling its siblings. The result is ordered by price ascending with
// nil-priced days last, date order preserved among ties.
func ScanAlternativeDates(client flightSearcher, origin, destination, baseDate string, daysBefore, daysAfter int) []DatePricePoint {
	base, err := time.Parse("2006-01-02", baseDate)
	if err != nil {
		log.Warnf("Alternative-date scan skipped, bad base date %q: %v", baseDate, err)
		return nil
	}

	var offsets []int
	for off := -daysBefore; off <= daysAfter; off++ {
		if off != 0 {
			offsets = append(offsets, off)
		}
	}

	points := make([]DatePricePoint, len(offsets))
	var wg sync.WaitGroup
	for i, off := range offsets {
		wg.Add(1)
		go func(slot, offset int) {
			defer wg.Done()
			date := base.AddDate(0, 0, offset).Format("2006-01-02")
			points[slot] = DatePricePoint{
				Date:  date,
				Price: cheapestPrice(client, origin, destination, date),
			}
		}(i, off)
	}
	wg.Wait()

	sort.SliceStable(points, func(i, j int) bool {
		pi, pj := points[i].Price, points[j].Price
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi < *pj
		}
	})
	return points
}

func cheapestPrice(client flightSearcher, origin, destination, date string) *float64 {
	offers, err := client.SearchFlights(SearchParams{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: date,
		Adults:        1,
		MaxResults:    1,
	})
	if err != nil {
		log.Warnf("Date scan search failed for %s: %v", date, err)
		return nil
	}

	var best *float64
	for _, offer := range offers {
		price := parsePrice(offer.Price.GrandTotal)
		if price <= 0 {
			continue
		}
		if best == nil || price < *best {
			p := price
			best = &p
		}
	}
	return best
}
