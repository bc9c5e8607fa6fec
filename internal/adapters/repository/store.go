// Package repository defines the usage store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/emopulse/emopulse-api/internal/domain/model"
)

// Entry represents one route's usage row.
type Entry struct {
	Rank         int       `json:"rank"`
	Route        string    `json:"route"`
	Requests     int64     `json:"requests"`
	Failures     int64     `json:"failures"`
	AvgLatencyMs float64   `json:"avgLatencyMs"`
	LastStatus   int       `json:"lastStatus"`
	LastSeen     time.Time `json:"lastSeen"`
}

// Store provides read/write access to usage counters.
type Store interface {
	// Record adds one usage sample to its route's counters.
	Record(ctx context.Context, u model.Usage) error

	// Rank returns the current rank and counters for a route.
	// Returns ErrNotFound if the route has not been used.
	Rank(ctx context.Context, route string) (Entry, error)

	// TopN returns the top-N routes ordered by requests desc, then route asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of routes tracked.
	Count(ctx context.Context) int
}
