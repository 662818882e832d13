package matcher

import (
	"regexp"
	"sort"
	"strings"

	dservice "SentiPull/internal/domain/service"
)

// companyNames maps well-known company names to tickers. Lookups are
// case-insensitive substring matches against title and body.
var companyNames = map[string]string{
	"apple":     "AAPL",
	"microsoft": "MSFT",
	"alphabet":  "GOOGL",
	"google":    "GOOGL",
	"amazon":    "AMZN",
	"tesla":     "TSLA",
	"meta":      "META",
	"facebook":  "META",
	"nvidia":    "NVDA",
	"netflix":   "NFLX",
	"intel":     "INTC",
	"amd":       "AMD",
	"boeing":    "BA",
	"jpmorgan":  "JPM",
	"goldman":   "GS",
	"walmart":   "WMT",
	"disney":    "DIS",
	"visa":      "V",
	"exxon":     "XOM",
	"chevron":   "CVX",
}

var tickerToken = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// QueryFor builds a news search query for one symbol: the ticker plus any
// known company names, OR-ed together.
func QueryFor(symbol string) string {
	symbol = strings.ToUpper(symbol)
	terms := []string{symbol}
	for name, sym := range companyNames {
		if sym == symbol {
			terms = append(terms, name)
		}
	}
	sort.Strings(terms[1:])
	return strings.Join(terms, " OR ")
}

// Matcher resolves news texts to the symbols they mention, restricted to a
// configured symbol universe.
type Matcher struct {
	universe map[string]struct{}
}

// New creates a matcher over the given symbol universe.
func New(symbols []string) dservice.SymbolMatcher {
	universe := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		universe[strings.ToUpper(s)] = struct{}{}
	}
	return &Matcher{universe: universe}
}

// Match returns the symbols mentioned in title or body, deduplicated and in
// no particular order. Company names match case-insensitively; bare ticker
// tokens must appear uppercase in the original text.
func (m *Matcher) Match(title, body string) []string {
	found := make(map[string]struct{})
	text := title + " " + body

	lower := strings.ToLower(text)
	for name, symbol := range companyNames {
		if _, ok := m.universe[symbol]; !ok {
			continue
		}
		if strings.Contains(lower, name) {
			found[symbol] = struct{}{}
		}
	}

	for _, token := range tickerToken.FindAllString(text, -1) {
		if _, ok := m.universe[token]; ok {
			found[token] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for symbol := range found {
		out = append(out, symbol)
	}
	return out
}
