package main

import (
	"booking-restaurant-server/config"
	"booking-restaurant-server/services"
	"booking-restaurant-server/storage"
	"context"
	"flag"
	"time"

	"github.com/kataras/golog"
)

// Builds the daily restaurant reports. Meant to be run by cron shortly after midnight:
//
//	go run ./scripts/daily_report            # yesterday
//	go run ./scripts/daily_report -date 2024-05-14
func main() {
	date := flag.String("date", "", "day to snapshot (YYYY-MM-DD), defaults to yesterday")
	flag.Parse()

	cfg := config.Load()
	loc := cfg.Report.Location()

	day := time.Now().In(loc).AddDate(0, 0, -1)
	if *date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *date, loc)
		if err != nil {
			golog.Fatalf("invalid -date %q: %v", *date, err)
		}
		day = parsed
	}

	db := storage.InitializeDB(cfg.Database)
	storage.InitializeEvents(cfg.Kafka)
	defer storage.Events.Close()

	job := services.NewSnapshotJob(services.NewGormReportStore(db), loc)
	if storage.Events != nil {
		job = job.WithEvents(storage.Events)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	run, err := job.Run(ctx, day)
	if err != nil {
		golog.Fatalf("daily report failed: %v", err)
	}
	if len(run.Failed) > 0 {
		golog.Warnf("⚠️  %d restaurants failed on %s", len(run.Failed), run.Date)
	}
}
