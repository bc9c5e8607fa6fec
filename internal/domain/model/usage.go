// Package model contains domain models passed between layers.
package model

import "time"

// Usage is one served analysis request, recorded after the response is written.
type Usage struct {
	RequestID string        // X-Request-ID, used for idempotent accounting
	Route     string        // route name, e.g. "emotion"; "rotate" for POST /
	Status    int           // HTTP status returned to the client
	Latency   time.Duration // handler latency
	At        time.Time     // completion time
}

// Failed reports whether the request ended with a client or server error.
func (u Usage) Failed() bool {
	return u.Status >= 400
}
