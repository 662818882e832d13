package usecase

import (
	"testing"
	"time"

	"SentiPull/internal/domain/models"
)

func TestNormalizeDedupKeepsFirst(t *testing.T) {
	n := NewNormalizer(24*time.Hour, nil, nil)

	raw := []models.RawNewsRecord{
		{ID: "a", Source: "wire", Title: "first", Body: "Revenue up 10%", PublishedAt: "2024-03-01T10:00:00Z"},
		{ID: "a", Source: "wire", Title: "second", Body: "Revenue up 20%", PublishedAt: "2024-03-01T11:00:00Z"},
		{ID: "a", Source: "other", Title: "third", Body: "Revenue up 30%", PublishedAt: "2024-03-01T12:00:00Z"},
	}
	items, _, stats := n.Normalize(raw, nil)

	if stats.NewsAccepted != 2 || stats.NewsDuplicates != 1 {
		t.Fatalf("expected 2 accepted, 1 duplicate, got %+v", stats)
	}
	if items[0].Title != "first" {
		t.Fatalf("dedup should keep first-seen record, got %q", items[0].Title)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(24*time.Hour, nil, nil)

	raw := []models.RawNewsRecord{
		{ID: "a", Source: "wire", Title: "t", Body: "$5 billion deal", PublishedAt: "2024-03-01T10:00:00Z"},
		{ID: "b", Source: "wire", Title: "t2", Body: "merger talks", PublishedAt: "2024-03-02"},
	}
	first, _, s1 := n.Normalize(raw, nil)
	second, _, s2 := n.Normalize(raw, nil)

	if s1 != s2 {
		t.Fatalf("stats differ across runs: %+v vs %+v", s1, s2)
	}
	if len(first) != len(second) {
		t.Fatalf("item counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("item %d differs across runs", i)
		}
	}
}

func TestNormalizeOffsetAssumed(t *testing.T) {
	n := NewNormalizer(24*time.Hour, nil, nil)

	raw := []models.RawNewsRecord{
		{ID: "a", Source: "wire", Title: "t", Body: "100 shares", PublishedAt: "2024-03-01T10:00:00+02:00"},
		{ID: "b", Source: "wire", Title: "t", Body: "100 shares", PublishedAt: "2024-03-01T10:00:00"},
	}
	items, _, _ := n.Normalize(raw, nil)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if items[0].OffsetAssumed {
		t.Error("explicit offset should not be flagged as assumed")
	}
	if !items[0].PublishedAt.Equal(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("offset timestamp not converted to UTC: %v", items[0].PublishedAt)
	}

	if !items[1].OffsetAssumed {
		t.Error("offset-less timestamp should be flagged as assumed")
	}
	if !items[1].PublishedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("naive timestamp should be read as UTC: %v", items[1].PublishedAt)
	}
}

func TestNormalizeRejects(t *testing.T) {
	n := NewNormalizer(24*time.Hour, nil, nil)

	raw := []models.RawNewsRecord{
		{ID: "", Source: "wire", Body: "no id", PublishedAt: "2024-03-01T10:00:00Z"},
		{ID: "a", Source: "wire", Body: "   ", PublishedAt: "2024-03-01T10:00:00Z"},
		{ID: "b", Source: "wire", Body: "bad time", PublishedAt: "not-a-time"},
		{ID: "c", Source: "wire", Body: "fine, up 3%", PublishedAt: "2024-03-01T10:00:00Z"},
	}
	items, _, stats := n.Normalize(raw, nil)

	if stats.NewsRejected != 3 || stats.NewsAccepted != 1 {
		t.Fatalf("expected 3 rejected / 1 accepted, got %+v", stats)
	}
	if items[0].ID != "c" {
		t.Fatalf("wrong survivor: %q", items[0].ID)
	}
}

func TestNormalizeNonFinancialFlag(t *testing.T) {
	n := NewNormalizer(24*time.Hour, nil, nil)

	raw := []models.RawNewsRecord{
		{ID: "a", Source: "wire", Title: "CEO to speak at conference", Body: "keynote announced", PublishedAt: "2024-03-01T10:00:00Z"},
		{ID: "b", Source: "wire", Title: "Earnings", Body: "revenue of $2 billion", PublishedAt: "2024-03-01T10:00:00Z"},
	}
	items, _, _ := n.Normalize(raw, nil)

	if !items[0].NonFinancial {
		t.Error("text without numbers or currency should be flagged non-financial")
	}
	if items[1].NonFinancial {
		t.Error("text with currency amounts should not be flagged")
	}
}

func TestNormalizeBars(t *testing.T) {
	n := NewNormalizer(24*time.Hour, nil, nil)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mid := day.Add(13 * time.Hour)
	raw := []models.RawPriceRecord{
		{Symbol: "AAPL", Timestamp: mid.Unix(), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Symbol: "AAPL", Timestamp: mid.Add(time.Hour).Unix(), Open: 10, High: 12, Low: 9, Close: 11, Volume: 50}, // same bucket, duplicate
		{Symbol: "AAPL", Timestamp: mid.Unix(), Open: 10, High: 9, Low: 11, Close: 11, Volume: 100},              // high < low
		{Symbol: "", Timestamp: mid.Unix(), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},                  // no symbol
	}
	_, bars, stats := n.Normalize(nil, raw)

	if stats.BarsAccepted != 1 || stats.BarsDuplicates != 1 || stats.BarsRejected != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !bars[0].Timestamp.Equal(day) {
		t.Fatalf("bar timestamp should floor to bucket start, got %v", bars[0].Timestamp)
	}
}
