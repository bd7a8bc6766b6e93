// rate-backfill stores FX snapshots for the last N days so historical
// commits resolve against a stored table instead of hitting the live
// provider per record.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/rate-backfill -days 30
//
// The provider only serves current rates, so backfilled days are written
// from today's table and flagged as fallback. Existing snapshots are
// never overwritten.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"gorm.io/gorm"
)

func main() {
	days := flag.Int("days", 30, "number of days to backfill, counting back from today")
	flag.Parse()
	if *days <= 0 || *days > 365 {
		fmt.Fprintln(os.Stderr, "-days must be between 1 and 365")
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	rates, err := models.FetchRates(ctx, nil, "")
	liveFailed := err != nil
	if liveFailed {
		fmt.Fprintf(os.Stderr, "live rate fetch failed (%v); using static fallback table\n", err)
		rates = models.FallbackRates()
	}
	ratesJSON, err := json.Marshal(rates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode rates: %v\n", err)
		os.Exit(1)
	}

	today := time.Now().UTC()
	var created, skipped int
	for i := *days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")

		var existing models.RateSnapshot
		lookupErr := db.WithContext(ctx).Where("date = ?", date).First(&existing).Error
		if lookupErr == nil {
			skipped++
			continue
		}
		if lookupErr != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to look up snapshot for %s: %v\n", date, lookupErr)
			os.Exit(1)
		}

		// Only today's snapshot can claim to be live.
		isFallback := liveFailed || i != 0
		snapshot := models.RateSnapshot{
			Date:       date,
			Base:       "USD",
			RatesJSON:  string(ratesJSON),
			IsFallback: isFallback,
		}
		if err := db.WithContext(ctx).Create(&snapshot).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create snapshot for %s: %v\n", date, err)
			os.Exit(1)
		}
		created++
	}

	fmt.Printf("Backfilled %d snapshots (%d already present) over the last %d days.\n", created, skipped, *days)
}
