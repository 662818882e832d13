package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, a bare date, and unix seconds.
// Returns (t, true) if any worked. Parsed times are always UTC.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t.UTC(), true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t.UTC(), true
    }
    if t, err := time.Parse("2006-01-02", s); err == nil {
        return t.UTC(), true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0).UTC(), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// BucketStart floors t to the start of its bucket in UTC. Buckets are
// half-open [start, start+granularity) anchored to the Unix epoch, so a
// 24h granularity yields midnight UTC and a weekly granularity yields
// the ISO week's Monday.
func BucketStart(t time.Time, granularity time.Duration) time.Time {
    t = t.UTC()
    if granularity == 7*24*time.Hour {
        day := t.Truncate(24 * time.Hour)
        // Monday anchor; Weekday() is Sunday=0
        offset := (int(day.Weekday()) + 6) % 7
        return day.AddDate(0, 0, -offset)
    }
    return t.Truncate(granularity)
}

// BucketEnd returns the exclusive end of the bucket containing t.
func BucketEnd(t time.Time, granularity time.Duration) time.Time {
    return BucketStart(t, granularity).Add(granularity)
}

// InBucket reports whether t falls inside [start, start+granularity).
func InBucket(t time.Time, start time.Time, granularity time.Duration) bool {
    t = t.UTC()
    return !t.Before(start) && t.Before(start.Add(granularity))
}

// AlignRange rounds a time range outward to bucket boundaries.
func AlignRange(from, to time.Time, granularity time.Duration) (time.Time, time.Time) {
    return BucketStart(from, granularity), BucketEnd(to.Add(-time.Nanosecond), granularity)
}
