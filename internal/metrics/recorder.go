package metrics

import "time"

// RequestResult enumerates upstream request outcomes.
type RequestResult string

const (
	RequestSuccess     RequestResult = "success"
	RequestNotModified RequestResult = "not_modified"
	RequestNotFound    RequestResult = "not_found"
	RequestRateLimited RequestResult = "rate_limited"
	RequestError       RequestResult = "error"
)

// CacheResult enumerates response cache outcomes.
type CacheResult string

const (
	CacheMiss        CacheResult = "miss"
	CacheRevalidated CacheResult = "revalidated"
	CacheFresh       CacheResult = "fresh"
)

// ForkOutcome enumerates how a fork left the engine loop.
type ForkOutcome string

const (
	ForkCompared     ForkOutcome = "compared"
	ForkDeduplicated ForkOutcome = "deduplicated"
	ForkSkipped      ForkOutcome = "skipped"
	ForkRateLimited  ForkOutcome = "rate_limited"
)

// Recorder defines observability hooks for fetches and engine runs. Implementations
// must tolerate concurrent calls from the two comparisons of a fork.
type Recorder interface {
	IncRequest(endpoint string, result RequestResult)
	IncCacheResult(result CacheResult)
	IncFork(outcome ForkOutcome)
	SetQuota(remaining, limit int)
	ObserveRunDuration(d time.Duration, cancelled bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not requested).
type NoopRecorder struct{}

func (NoopRecorder) IncRequest(string, RequestResult) {}
func (NoopRecorder) IncCacheResult(CacheResult) {}
func (NoopRecorder) IncFork(ForkOutcome) {}
func (NoopRecorder) SetQuota(int, int) {}
func (NoopRecorder) ObserveRunDuration(time.Duration, bool) {}
