// Package loadtest drives a running quoting service with generated
// bookings and checks every returned breakdown against the engine's
// accounting invariants.
package loadtest

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumBookings int           // Number of bookings to generate
	BatchSize   int           // Bookings per POST /quotes/batch; 0 posts them one by one
	Workers     int           // Number of concurrent submitters
	Timeout     time.Duration // HTTP request timeout
	RulesID     string        // Rule set to quote against; empty uses the service default
	Seed        uint64        // Seed for booking generation
	OutputFile  string        // Optional file receiving the generated bookings
	Verbose     bool          // Log every violation
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Successful int
	Rejected   int
	Failed     int
	Violations int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
