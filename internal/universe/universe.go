// Package universe provides the reference ticker list used for
// autocomplete suggestions and server-side ticker validation. The list is
// an externally supplied collaborator: callers construct one from the
// embedded default set or from an exchange listing CSV.
package universe

import (
	"encoding/csv"
	"os"
	"strings"
)

// Universe is an ordered set of ticker symbols. Ordering is the reference
// order: suggestions are returned in the same order symbols were supplied.
type Universe struct {
	symbols []string
	index   map[string]int
}

// New builds a Universe from the given symbols, upper-casing and dropping
// duplicates while preserving first-seen order.
func New(symbols []string) *Universe {
	u := &Universe{index: make(map[string]int, len(symbols))}
	for _, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" {
			continue
		}
		if _, ok := u.index[sym]; ok {
			continue
		}
		u.index[sym] = len(u.symbols)
		u.symbols = append(u.symbols, sym)
	}
	return u
}

// Default returns a Universe over the bundled S&P 500 constituent list.
func Default() *Universe {
	return New(sp500Tickers)
}

// LoadCSV reads symbols from a listing CSV whose first column is the
// symbol. A header row with a first cell of "Symbol" or "SYMBOL" is
// skipped.
func LoadCSV(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var symbols []string
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		if i == 0 && strings.EqualFold(record[0], "symbol") {
			continue
		}
		symbols = append(symbols, record[0])
	}
	return New(symbols), nil
}

// Len returns the number of symbols in the universe.
func (u *Universe) Len() int {
	return len(u.symbols)
}

// Symbols returns the symbols in reference order. The returned slice is a
// copy.
func (u *Universe) Symbols() []string {
	out := make([]string, len(u.symbols))
	copy(out, u.symbols)
	return out
}

// Contains reports whether the symbol is in the universe. Matching is
// case-insensitive.
func (u *Universe) Contains(symbol string) bool {
	_, ok := u.index[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}

// Suggest returns up to max symbols that start with the given partial,
// case-insensitively, in reference order. An empty partial yields no
// suggestions.
func (u *Universe) Suggest(partial string, max int) []string {
	prefix := strings.ToUpper(strings.TrimSpace(partial))
	if prefix == "" || max <= 0 {
		return nil
	}
	var out []string
	for _, sym := range u.symbols {
		if strings.HasPrefix(sym, prefix) {
			out = append(out, sym)
			if len(out) == max {
				break
			}
		}
	}
	return out
}

// Closest returns the universe symbol most similar to the given one, or
// false when nothing clears the 0.6 similarity cutoff. Exact members are
// returned as-is.
func (u *Universe) Closest(symbol string) (string, bool) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return "", false
	}
	if _, ok := u.index[sym]; ok {
		return sym, true
	}

	best := ""
	bestScore := 0.0
	for _, cand := range u.symbols {
		score := similarity(sym, cand)
		if score > bestScore {
			best = cand
			bestScore = score
		}
	}
	if bestScore >= 0.6 {
		return best, true
	}
	return "", false
}

// similarity is a normalized edit-distance ratio in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(a, b))/float64(longest)
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, min(cur[j-1]+1, prev[j-1]+cost))
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
