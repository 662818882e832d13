package util

import (
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeBareDate(t *testing.T) {
    got, ok := ParseTime("2024-10-10")
    if !ok {
        t.Fatalf("expected ok")
    }
    want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestBucketStartDaily(t *testing.T) {
    in := time.Date(2024, 10, 10, 17, 42, 3, 0, time.UTC)
    got := BucketStart(in, 24*time.Hour)
    want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("got %v want %v", got, want)
    }
}

func TestBucketStartWeeklyMondayAnchor(t *testing.T) {
    // 2024-10-10 is a Thursday; the week starts Monday 2024-10-07.
    in := time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)
    got := BucketStart(in, 7*24*time.Hour)
    want := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("got %v want %v", got, want)
    }
}

func TestInBucketHalfOpen(t *testing.T) {
    start := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
    day := 24 * time.Hour
    if !InBucket(start, start, day) {
        t.Fatalf("bucket start must be inclusive")
    }
    if InBucket(start.Add(day), start, day) {
        t.Fatalf("bucket end must be exclusive")
    }
    if !InBucket(start.Add(day-time.Second), start, day) {
        t.Fatalf("last second must be in bucket")
    }
}
