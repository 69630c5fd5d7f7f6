// Command loadtest posts generated bookings to a running quoting service
// and verifies the returned breakdowns.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/banquet/internal/loadtest"
	"github.com/okian/banquet/pkg/logger"
)

func main() {
	var cfg loadtest.Config
	flag.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	flag.IntVar(&cfg.NumBookings, "bookings", 1000, "Number of bookings to generate")
	flag.IntVar(&cfg.BatchSize, "batch", 0, "Bookings per batch request (0 posts one by one)")
	flag.IntVar(&cfg.Workers, "workers", 10, "Number of concurrent submitters")
	flag.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
	flag.StringVar(&cfg.RulesID, "rules", "", "Rule set id (empty uses the service default)")
	flag.Uint64Var(&cfg.Seed, "seed", uint64(time.Now().UnixNano()), "Booking generation seed")
	flag.StringVar(&cfg.OutputFile, "output", "", "Save generated bookings to file")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Log every failure and violation")
	logFormat := flag.String("log-format", "text", "Log format (text|json)")
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*logFormat)); err != nil {
		os.Exit(1)
	}
	log := logger.Named("loadtest")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "starting load run",
		logger.String("url", cfg.BaseURL),
		logger.Int("bookings", cfg.NumBookings),
		logger.Any("seed", cfg.Seed))

	if _, err := loadtest.NewRunner(cfg, log).Run(ctx); err != nil {
		log.Error(ctx, "load run failed", logger.Error(err))
		os.Exit(1)
	}
}
