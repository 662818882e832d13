package matcher

import (
	"sort"
	"testing"
)

func TestMatchCompanyName(t *testing.T) {
	m := New([]string{"AAPL", "TSLA"})

	got := m.Match("Apple unveils new chip", "The iPhone maker said revenue rose.")
	if len(got) != 1 || got[0] != "AAPL" {
		t.Fatalf("expected [AAPL], got %v", got)
	}
}

func TestMatchTickerToken(t *testing.T) {
	m := New([]string{"AAPL", "TSLA"})

	got := m.Match("TSLA deliveries beat estimates", "")
	if len(got) != 1 || got[0] != "TSLA" {
		t.Fatalf("expected [TSLA], got %v", got)
	}
}

func TestMatchLowercaseTickerIgnored(t *testing.T) {
	m := New([]string{"TSLA"})

	if got := m.Match("tsla deliveries", "nothing here"); len(got) != 0 {
		t.Fatalf("lowercase ticker should not match, got %v", got)
	}
}

func TestMatchOutsideUniverse(t *testing.T) {
	m := New([]string{"MSFT"})

	if got := m.Match("Apple and NVDA rally", "Tesla too"); len(got) != 0 {
		t.Fatalf("symbols outside the universe should not match, got %v", got)
	}
}

func TestMatchMultipleDeduplicated(t *testing.T) {
	m := New([]string{"AAPL", "MSFT"})

	got := m.Match("Apple, AAPL and Microsoft", "Apple again")
	sort.Strings(got)
	want := []string{"AAPL", "MSFT"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
