package config

import (
	"os"
	"strings"
)

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// StrictCommittedDocImmutability blocks edits to documents after commit;
// corrections then require deleting the ledger records and re-reviewing.
//
// Set via env:
// - STRICT_COMMITTED_DOC_IMMUTABLE=true
func StrictCommittedDocImmutability() bool {
	return boolFromEnv("STRICT_COMMITTED_DOC_IMMUTABLE")
}

// ReportCacheEnabled gates the redis report cache.
//
// Set via env:
// - ENABLE_REPORT_CACHE=true
func ReportCacheEnabled() bool {
	return boolFromEnv("ENABLE_REPORT_CACHE")
}

// RateLimiterEnabled gates the per-user request rate limiter.
//
// Set via env:
// - ENABLE_RATE_LIMITER=true
func RateLimiterEnabled() bool {
	return boolFromEnv("ENABLE_RATE_LIMITER")
}
