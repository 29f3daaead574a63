package metrics

import (
	"strconv"
	"time"

	"github.com/luminara/journey-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// AuthMetric describes one authentication attempt.
type AuthMetric struct {
	// Operation is login, register, federated or logout.
	Operation string
	Provider  string
	Result    string
	// Code is the failure code, empty on success.
	Code     string
	Duration time.Duration
}

// EmitAuth emits the attempt counter and, when measured, its latency.
func EmitAuth(sink statsd.Sink, in AuthMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"operation": in.Operation,
		"provider":  in.Provider,
		"result":    in.Result,
	}
	if in.Code != "" {
		tags["code"] = in.Code
	}
	sink.Count("auth.attempt", 1, tags)
	if in.Duration > 0 {
		sink.Timing("auth.duration", in.Duration, tags)
	}
}

// EmitStepTransition counts journey step changes.
// Transition is completed, reopened or navigated.
func EmitStepTransition(sink statsd.Sink, stepID int, transition string) {
	if sink == nil {
		return
	}
	sink.Count("journey.step", 1, map[string]string{
		"step":       strconv.Itoa(stepID),
		"transition": transition,
	})
}

// EmitWorkspaces records how many workspaces a sweep evicted.
func EmitWorkspaces(sink statsd.Sink, evicted int) {
	if sink == nil || evicted <= 0 {
		return
	}
	sink.Count("workspace.evicted", int64(evicted), nil)
}
