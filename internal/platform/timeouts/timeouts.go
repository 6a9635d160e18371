// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// ProviderRequest caps the time allowed for a single generative-text
// provider call made by the assistant service.
const ProviderRequest = 30 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// TourTarget bounds how long the tour runner waits for a step target to
// become available before falling back to centered placement.
const TourTarget = 5 * time.Second

// TourTargetPoll is the interval between tour target probe attempts.
const TourTargetPoll = 100 * time.Millisecond
