package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// ReportingCurrency is the single currency all offers are normalized into.
const ReportingCurrency = "USD"

// RateSnapshot holds exchange rates keyed by currency code, relative to Base.
// Rates[X] is how many units of X one unit of Base buys.
type RateSnapshot struct {
	Base  string             `json:"base_code"`
	Rates map[string]float64 `json:"rates"`
}

type RatesClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRatesClient(baseURL string) *RatesClient {
	return &RatesClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var ratesClient *RatesClient

func InitRates() {
	baseURL := os.Getenv("RATES_URL")
	if baseURL == "" {
		baseURL = "https://open.er-api.com/v6/latest"
	}
	ratesClient = NewRatesClient(baseURL)
	log.Infof("Currency rates source: %s", baseURL)
}

func GetRatesClient() *RatesClient {
	return ratesClient
}

// FetchSnapshot fetches the current rate snapshot relative to the reporting
// currency. Callers treat a failure as "conversion unavailable" and pass a
// nil snapshot to the normalizer; it is never surfaced to the user.
func (c *RatesClient) FetchSnapshot() (*RateSnapshot, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/" + ReportingCurrency)
	if err != nil {
		return nil, &ConversionError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &ConversionError{Err: fmt.Errorf("rate source returned %d", resp.StatusCode)}
	}

	var snap RateSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, &ConversionError{Err: fmt.Errorf("parse rates: %w", err)}
	}
	if len(snap.Rates) == 0 {
		return nil, &ConversionError{Err: fmt.Errorf("empty rate table")}
	}
	if snap.Base == "" {
		snap.Base = ReportingCurrency
	}
	return &snap, nil
}
