package universe

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSuggestPrefixOrderAndCap(t *testing.T) {
	u := New([]string{"A", "AAL", "AAP", "AAPL", "AAWW", "AAON", "AAXN", "MSFT"})

	got := u.Suggest("AA", 5)
	want := []string{"AAL", "AAP", "AAPL", "AAWW", "AAON"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest(AA) = %v, want %v", got, want)
	}
}

func TestSuggestCaseInsensitive(t *testing.T) {
	u := New([]string{"AAL", "AAP", "AAPL"})

	got := u.Suggest("aa", 5)
	want := []string{"AAL", "AAP", "AAPL"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest(aa) = %v, want %v", got, want)
	}
}

func TestSuggestEmptyPartial(t *testing.T) {
	u := Default()
	if got := u.Suggest("", 5); got != nil {
		t.Errorf("Suggest(\"\") = %v, want nil", got)
	}
}

func TestContains(t *testing.T) {
	u := Default()
	if !u.Contains("AAPL") || !u.Contains("aapl") {
		t.Error("Contains should match case-insensitively")
	}
	if u.Contains("ZZZZ") {
		t.Error("Contains(ZZZZ) = true, want false")
	}
}

func TestClosest(t *testing.T) {
	u := Default()

	// Exact members come back unchanged.
	if got, ok := u.Closest("MSFT"); !ok || got != "MSFT" {
		t.Errorf("Closest(MSFT) = %q, %v", got, ok)
	}

	// A one-letter slip resolves to the real symbol.
	if got, ok := u.Closest("APPL"); !ok || got != "AAPL" {
		t.Errorf("Closest(APPL) = %q, %v, want AAPL", got, ok)
	}

	// Garbage clears nothing.
	if got, ok := u.Closest("ZZZZ"); ok {
		t.Errorf("Closest(ZZZZ) = %q, want no match", got)
	}
}

func TestNewDedupsAndUppercases(t *testing.T) {
	u := New([]string{"aapl", "AAPL", " msft ", ""})
	if got := u.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	want := []string{"AAPL", "MSFT"}
	if got := u.Symbols(); !reflect.DeepEqual(got, want) {
		t.Errorf("Symbols() = %v, want %v", got, want)
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.csv")
	csv := "Symbol,Name\nAAPL,Apple Inc.\nMSFT,Microsoft Corporation\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("writing temp CSV: %v", err)
	}

	u, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV() returned error: %v", err)
	}
	want := []string{"AAPL", "MSFT"}
	if got := u.Symbols(); !reflect.DeepEqual(got, want) {
		t.Errorf("Symbols() = %v, want %v", got, want)
	}
}
