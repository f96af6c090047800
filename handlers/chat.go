package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"flightchat/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Collaborators the chat orchestrator depends on. Injected so tests can run
// the whole turn against fakes.
type FlightSearcher interface {
	SearchFlights(services.SearchParams) ([]services.FlightOffer, error)
}

type RatesFetcher interface {
	FetchSnapshot() (*services.RateSnapshot, error)
}

type TextOracle interface {
	Complete(prompt string) (string, error)
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response   string                     `json:"response"`
	FlightData []services.NormalizedOffer `json:"flightData"`
}

const maxOffersShown = 5

const apologyMessage = "Sorry, I'm having trouble putting together a reply right now. Please try again in a moment."

var flexibleDateHints = []string{
	"flexible", "cheaper", "cheapest day", "other dates", "different dates",
	"any day", "around that",
}

// ChatHandler handles one chat turn: extract a flight query from the message,
// search if the query is complete, normalize what came back and have the
// oracle phrase the reply. Everything below reply synthesis degrades
// gracefully; only an oracle failure fails the request.
func ChatHandler(flights FlightSearcher, rates RatesFetcher, oracle TextOracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    "Invalid request: " + err.Error(),
				"response": "I couldn't read that message. Could you try again?",
			})
			return
		}

		message := strings.TrimSpace(req.Message)
		if message == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    "Message must not be empty",
				"response": "Tell me where you'd like to fly, for example: flights from SF to NYC in December.",
			})
			return
		}

		query := services.ExtractQuery(message)

		var offers []services.NormalizedOffer
		brief := ""

		switch {
		case !query.Complete():
			brief = "The user hasn't given enough to search with. Ask for the missing " +
				"pieces: " + missingFields(query) + ". Mention they can say something like " +
				"\"flights from San Francisco to New York in December\"."

		default:
			date := services.NormalizeDate(query.RawDate, time.Now())

			raw, err := flights.SearchFlights(services.SearchParams{
				Origin:        query.Origin,
				Destination:   query.Destination,
				DepartureDate: date,
				Adults:        1,
				MaxResults:    maxOffersShown,
			})

			switch {
			case err != nil:
				// Auth and search failures both degrade to "no flight data".
				log.Warnf("Flight search degraded for %s-%s: %v", query.Origin, query.Destination, err)
				brief = fmt.Sprintf("Flight data is unavailable right now for %s to %s on %s. "+
					"Apologize briefly and suggest trying again shortly.",
					query.Origin, query.Destination, date)

			case len(raw) == 0:
				brief = fmt.Sprintf("No flights were found from %s to %s on %s. "+
					"Say so and invite the user to try different dates or nearby airports.",
					query.Origin, query.Destination, date)

			default:
				snapshot, rerr := rates.FetchSnapshot()
				if rerr != nil {
					// Prices stay in their original currency; never user-visible.
					log.Warnf("Currency conversion unavailable: %v", rerr)
					snapshot = nil
				}
				offers = services.NormalizeOffers(raw, snapshot)
				if len(offers) == 0 {
					brief = fmt.Sprintf("No usable flights from %s to %s on %s. "+
						"Say so and invite the user to try different dates or nearby airports.",
						query.Origin, query.Destination, date)
					break
				}
				cheapest := offers[0]
				brief = fmt.Sprintf("Found %d flights from %s to %s on %s. Cheapest: %s, "+
					"$%.2f USD, %s, %d stop(s), departing %s. Summarize that option and offer "+
					"to show more flights, filter, or change dates.",
					len(offers), query.Origin, query.Destination, date,
					cheapest.AirlineName, cheapest.PriceUSD, cheapest.Duration,
					cheapest.Stops, cheapest.DepartureTime)
			}

			if wantsFlexibleDates(message) {
				if alt := bestAlternativeDate(flights, query.Origin, query.Destination, date); alt != "" {
					brief += " " + alt
				}
			}
		}

		reply, err := oracle.Complete(buildReplyPrompt(brief))
		if err != nil {
			log.Errorf("Reply synthesis failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":    err.Error(),
				"response": apologyMessage,
			})
			return
		}

		c.JSON(http.StatusOK, ChatResponse{
			Response:   strings.TrimSpace(reply),
			FlightData: offers,
		})
	}
}

func missingFields(q services.FlightQuery) string {
	var missing []string
	if q.Origin == "" {
		missing = append(missing, "where they're flying from")
	}
	if q.Destination == "" {
		missing = append(missing, "where they're flying to")
	}
	if q.RawDate == "" {
		missing = append(missing, "roughly when")
	}
	return strings.Join(missing, ", ")
}

func wantsFlexibleDates(message string) bool {
	lower := strings.ToLower(message)
	for _, hint := range flexibleDateHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// bestAlternativeDate scans three days either side of the base date and
// reports the cheapest alternative, if any day produced a price.
func bestAlternativeDate(flights FlightSearcher, origin, destination, date string) string {
	points := services.ScanAlternativeDates(flights, origin, destination, date, 3, 3)
	if len(points) == 0 || points[0].Price == nil {
		return ""
	}
	return fmt.Sprintf("Nearby dates were also checked; the cheapest alternative is %s at $%.2f, worth mentioning.",
		points[0].Date, *points[0].Price)
}

func buildReplyPrompt(brief string) string {
	return fmt.Sprintf(`[INST] You are a friendly flight-search assistant. Write the reply to the user described below. Keep it under 80 words, conversational, and do not invent flights, prices or dates beyond what is given.

%s [/INST]`, brief)
}
