package probe

import (
	"runtime"
	"time"
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Workers int           // Number of concurrent checks
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Print passing checks as well as failures
	NoColor bool          // Disable ANSI colours in the report
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080",
		Workers: runtime.NumCPU() * 2,
		Timeout: 10 * time.Second,
	}
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Passed   bool
	Duration time.Duration
	Detail   string
}
