package services

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// FlightQuery is what the extractor could pull out of one utterance. Empty
// fields mean "not found". A search is only attempted when both Origin and
// Destination are set.
type FlightQuery struct {
	Origin      string
	Destination string
	RawDate     string
}

func (q FlightQuery) Complete() bool {
	return q.Origin != "" && q.Destination != ""
}

var (
	codeTokenRe  = regexp.MustCompile(`\b[A-Z]{3}\b`)
	datePhraseRe = regexp.MustCompile(`(?i)\b(?:on|in|for)\s+` +
		`((?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|` +
		`aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)` +
		`(?:\s+\d{1,2}(?:st|nd|rd|th)?)?(?:,?\s*\d{4})?` +
		`|\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?)`)
)

// ExtractQuery scans one user utterance for an origin, a destination and a
// travel-date phrase. City names are matched case-insensitively against the
// alias vocabulary; the first two distinct cities, in order of first
// occurrence, become origin and destination. If fewer than two city names are
// found, bare 3-letter uppercase tokens in the original-case text fill the
// remaining slots in order of appearance. The date phrase, if any, is
// captured verbatim for NormalizeDate to interpret.
//
// Pure and deterministic: no I/O, same answer for the same utterance.
func ExtractQuery(utterance string) FlightQuery {
	var q FlightQuery

	lower := strings.ToLower(utterance)

	// Earliest occurrence per airport code. An alias reachable through
	// several spellings keeps the smallest offset.
	first := map[string]int{}
	for _, a := range cityAliases {
		idx := wordIndex(lower, a.Name)
		if idx < 0 {
			continue
		}
		code := ResolveAirport(a.Name)
		if prev, ok := first[code]; !ok || idx < prev {
			first[code] = idx
		}
	}

	type hit struct {
		code string
		idx  int
	}
	hits := make([]hit, 0, len(first))
	for code, idx := range first {
		hits = append(hits, hit{code, idx})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].idx < hits[j].idx })

	if len(hits) > 0 {
		q.Origin = hits[0].code
	}
	if len(hits) > 1 {
		q.Destination = hits[1].code
	}

	// Fallback: bare IATA-looking tokens in the original casing.
	if q.Origin == "" || q.Destination == "" {
		for _, code := range codeTokenRe.FindAllString(utterance, -1) {
			if code == q.Origin || code == q.Destination {
				continue
			}
			if q.Origin == "" {
				q.Origin = code
			} else if q.Destination == "" {
				q.Destination = code
			} else {
				break
			}
		}
	}

	if m := datePhraseRe.FindStringSubmatch(utterance); m != nil {
		q.RawDate = m[1]
	}

	return q
}

// wordIndex returns the first index of sub in s where both neighbours are
// non-letters, or -1. Keeps "la" from matching inside "flights".
func wordIndex(s, sub string) int {
	from := 0
	for {
		i := strings.Index(s[from:], sub)
		if i < 0 {
			return -1
		}
		i += from
		before := i == 0 || !isLetter(s[i-1])
		end := i + len(sub)
		after := end == len(s) || !isLetter(s[end])
		if before && after {
			return i
		}
		from = i + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

var monthAbbrevs = []struct {
	abbr  string
	month time.Month
}{
	{"jan", time.January}, {"feb", time.February}, {"mar", time.March},
	{"apr", time.April}, {"may", time.May}, {"jun", time.June},
	{"jul", time.July}, {"aug", time.August}, {"sep", time.September},
	{"oct", time.October}, {"nov", time.November}, {"dec", time.December},
}

// NormalizeDate turns a captured date phrase into a YYYY-MM-DD departure
// date. No phrase defaults to 30 days out. A recognized month name resolves
// to the 15th of its nearest future occurrence, rolling into next year when
// the month has already passed. Deliberately coarse: this is a default-date
// generator, not a date parser, and the day of month from the user's text is
// not honoured.
func NormalizeDate(rawDate string, now time.Time) string {
	lower := strings.ToLower(rawDate)
	for _, m := range monthAbbrevs {
		if !strings.Contains(lower, m.abbr) {
			continue
		}
		year := now.Year()
		if m.month < now.Month() {
			year++
		}
		return time.Date(year, m.month, 15, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	}
	return now.AddDate(0, 0, 30).Format("2006-01-02")
}
