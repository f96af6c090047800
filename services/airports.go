package services

import "strings"

// cityAlias maps one free-text spelling of a city to its airport code. The
// vocabulary is a slice, not a map: the extractor scans it in a fixed order,
// which keeps extraction deterministic for a given utterance.
type cityAlias struct {
	Name string
	Code string
}

// Multi-word aliases come before their substrings ("new york city" before
// "new york") so the longest spelling claims the earliest occurrence.
var cityAliases = []cityAlias{
	{"new york city", "JFK"},
	{"new york", "JFK"},
	{"nyc", "JFK"},
	{"san francisco", "SFO"},
	{"sf", "SFO"},
	{"los angeles", "LAX"},
	{"la", "LAX"},
	{"london", "LHR"},
	{"paris", "CDG"},
	{"tokyo", "NRT"},
	{"chicago", "ORD"},
	{"miami", "MIA"},
	{"seattle", "SEA"},
	{"boston", "BOS"},
	{"denver", "DEN"},
	{"atlanta", "ATL"},
	{"dallas", "DFW"},
	{"houston", "IAH"},
	{"las vegas", "LAS"},
	{"vegas", "LAS"},
	{"washington", "DCA"},
	{"dc", "DCA"},
	{"amsterdam", "AMS"},
	{"frankfurt", "FRA"},
	{"berlin", "BER"},
	{"madrid", "MAD"},
	{"barcelona", "BCN"},
	{"rome", "FCO"},
	{"istanbul", "IST"},
	{"dubai", "DXB"},
	{"singapore", "SIN"},
	{"bangkok", "BKK"},
	{"hong kong", "HKG"},
	{"sydney", "SYD"},
	{"toronto", "YYZ"},
	{"mexico city", "MEX"},
	{"tashkent", "TAS"},
}

// ResolveAirport maps a free-text city name or raw code to an airport code.
// Unknown input is upper-cased and used as-is; there is no failure mode, only
// silent degradation to a best-effort code.
func ResolveAirport(text string) string {
	needle := strings.ToLower(strings.Join(strings.Fields(text), " "))
	for _, a := range cityAliases {
		if a.Name == needle {
			return a.Code
		}
	}
	return strings.ToUpper(strings.TrimSpace(text))
}

// airlineName returns the full airline name for an IATA carrier code.
// Unknown codes pass through unchanged.
func airlineName(code string) string {
	names := map[string]string{
		"AA": "American Airlines",
		"DL": "Delta Air Lines",
		"UA": "United Airlines",
		"WN": "Southwest Airlines",
		"AS": "Alaska Airlines",
		"B6": "JetBlue Airways",
		"NK": "Spirit Airlines",
		"F9": "Frontier Airlines",
		"BA": "British Airways",
		"AF": "Air France",
		"LH": "Lufthansa",
		"KL": "KLM",
		"IB": "Iberia",
		"AZ": "ITA Airways",
		"LX": "Swiss International Air Lines",
		"OS": "Austrian Airlines",
		"TK": "Turkish Airlines",
		"EK": "Emirates",
		"QR": "Qatar Airways",
		"EY": "Etihad Airways",
		"SQ": "Singapore Airlines",
		"CX": "Cathay Pacific",
		"NH": "ANA",
		"JL": "Japan Airlines",
		"QF": "Qantas",
		"AC": "Air Canada",
		"AM": "Aeromexico",
		"FR": "Ryanair",
		"U2": "EasyJet",
		"W6": "Wizz Air",
		"FZ": "FlyDubai",
		"HY": "Uzbekistan Airways",
	}
	if name, ok := names[code]; ok {
		return name
	}
	return code
}
