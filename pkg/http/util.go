package http

import (
	"time"

	xutil "SentiPull/pkg/util"
)

// ParseTime tries RFC3339, RFC3339Nano, a bare date, and unix seconds.
func ParseTime(s string) (time.Time, bool) { return xutil.ParseTime(s) }

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time { return xutil.ParseTimeDefault(s, def) }
