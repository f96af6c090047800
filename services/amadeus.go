package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ─── Raw offer types (upstream shape) ─────────────────────────────────────────

type SegmentPoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

type Segment struct {
	Departure   SegmentPoint `json:"departure"`
	Arrival     SegmentPoint `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

// FlightOffer is one priced offer as returned by the flight-offers API.
// Transient: parsed, normalized, discarded.
type FlightOffer struct {
	Price struct {
		GrandTotal string `json:"grandTotal"`
		Currency   string `json:"currency"`
	} `json:"price"`
	Itineraries            []Itinerary `json:"itineraries"`
	ValidatingAirlineCodes []string    `json:"validatingAirlineCodes"`
}

type flightOffersResponse struct {
	Data []FlightOffer `json:"data"`
}

// ─── Client ───────────────────────────────────────────────────────────────────

// Treat tokens as expiring this long before their advertised lifetime, to
// absorb clock skew and in-flight request latency.
const tokenExpiryBuffer = 300 * time.Second

type AmadeusClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	accessToken  string
	tokenExpiry  time.Time
	mu           sync.Mutex
	httpClient   *http.Client
	now          func() time.Time
}

func NewAmadeusClient(clientID, clientSecret, baseURL string) *AmadeusClient {
	return &AmadeusClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

var amadeusClient *AmadeusClient

func InitAmadeus() {
	env := os.Getenv("AMADEUS_ENV")
	baseURL := "https://api.amadeus.com" // production
	if env == "" || env == "test" {
		baseURL = "https://test.api.amadeus.com" // free test environment
	}

	clientID := os.Getenv("AMADEUS_CLIENT_ID")
	clientSecret := os.Getenv("AMADEUS_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Fatal("AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET must be set")
	}

	amadeusClient = NewAmadeusClient(clientID, clientSecret, baseURL)

	// Pre-warm the token; failure here is transient, not fatal
	if _, err := amadeusClient.getToken(); err != nil {
		log.Warnf("Amadeus token pre-warm failed: %v", err)
	} else {
		log.Info("Amadeus API authenticated")
	}
}

func GetAmadeusClient() *AmadeusClient {
	return amadeusClient
}

// ─── OAuth2 token cache ───────────────────────────────────────────────────────

// getToken returns the cached bearer token, fetching a fresh one when the
// cache is empty or past its (buffered) expiry. On fetch failure the cache
// stays empty and the call fails with an AuthError.
func (c *AmadeusClient) getToken() (string, error) {
	c.mu.Lock()
	token, expiry := c.accessToken, c.tokenExpiry
	c.mu.Unlock()

	if token != "" && c.now().Before(expiry) {
		return token, nil
	}
	if err := c.refreshToken(); err != nil {
		return "", err
	}

	c.mu.Lock()
	token = c.accessToken
	c.mu.Unlock()
	return token, nil
}

func (c *AmadeusClient) refreshToken() error {
	// Re-check validity right before fetching: a concurrent caller may have
	// refreshed already.
	c.mu.Lock()
	if c.accessToken != "" && c.now().Before(c.tokenExpiry) {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequest("POST",
		c.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &AuthError{Err: fmt.Errorf("parse token response: %w", err)}
	}
	if result.AccessToken == "" {
		return &AuthError{Err: fmt.Errorf("empty access token in response")}
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(result.ExpiresIn)*time.Second - tokenExpiryBuffer)
	c.mu.Unlock()

	return nil
}

// invalidateToken drops the cached token if it is still the one the caller
// saw rejected. A newer cached token is someone else's fresh one.
func (c *AmadeusClient) invalidateToken(rejected string) {
	c.mu.Lock()
	if c.accessToken == rejected {
		c.accessToken = ""
		c.tokenExpiry = time.Time{}
	}
	c.mu.Unlock()
}

// ─── Flight search ────────────────────────────────────────────────────────────

type SearchParams struct {
	Origin        string
	Destination   string
	DepartureDate string // YYYY-MM-DD
	Adults        int
	MaxResults    int
}

// SearchFlights issues an authenticated flight-offers search. An empty result
// is a valid outcome (no flights on that route/date). A rejected token is
// refreshed and retried exactly once; everything else fails with a
// SearchError carrying the upstream status and body.
func (c *AmadeusClient) SearchFlights(p SearchParams) ([]FlightOffer, error) {
	token, err := c.getToken()
	if err != nil {
		return nil, err
	}

	status, body, err := c.searchOnce(p, token)
	if err != nil {
		return nil, &SearchError{Err: err}
	}

	if status == http.StatusUnauthorized {
		c.invalidateToken(token)
		token, err = c.getToken()
		if err != nil {
			return nil, err
		}
		status, body, err = c.searchOnce(p, token)
		if err != nil {
			return nil, &SearchError{Err: err}
		}
	}

	if status < 200 || status >= 300 {
		return nil, &SearchError{Status: status, Body: string(body)}
	}

	var resp flightOffersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &SearchError{Err: fmt.Errorf("parse flight offers: %w", err)}
	}
	return resp.Data, nil
}

func (c *AmadeusClient) searchOnce(p SearchParams, token string) (int, []byte, error) {
	adults := p.Adults
	if adults <= 0 {
		adults = 1
	}
	maxResults := p.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	path := fmt.Sprintf(
		"/v2/shopping/flight-offers?originLocationCode=%s&destinationLocationCode=%s"+
			"&departureDate=%s&adults=%d&max=%d&currencyCode=USD",
		url.QueryEscape(p.Origin),
		url.QueryEscape(p.Destination),
		url.QueryEscape(p.DepartureDate),
		adults,
		maxResults,
	)

	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body, nil
}
