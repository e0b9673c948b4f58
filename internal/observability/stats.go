package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	CompaniesFetched   uint64            `json:"companies_fetched"`
	PostingsDiscovered uint64            `json:"postings_discovered"`
	JobsInserted       uint64            `json:"jobs_inserted"`
	JobsUpdated        uint64            `json:"jobs_updated"`
	JobsSkipped        uint64            `json:"jobs_skipped"`
	ErrorsTotal        uint64            `json:"errors_total"`
	FetchSecondsAvg    float64           `json:"fetch_seconds_avg"`
	ErrorsByType       map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent  map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	companiesFetched   uint64
	postingsDiscovered uint64
	jobsInserted       uint64
	jobsUpdated        uint64
	jobsSkipped        uint64
	errorsTotal        uint64

	fetchCount uint64
	fetchNanos uint64

	statsMu           sync.Mutex
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func AddCompaniesFetched(n int) {
	if n > 0 {
		atomic.AddUint64(&companiesFetched, uint64(n))
	}
}

func AddPostingsDiscovered(n int) {
	if n > 0 {
		atomic.AddUint64(&postingsDiscovered, uint64(n))
	}
}

func AddBatchOutcome(inserted, updated, skipped int) {
	if inserted > 0 {
		atomic.AddUint64(&jobsInserted, uint64(inserted))
	}
	if updated > 0 {
		atomic.AddUint64(&jobsUpdated, uint64(updated))
	}
	if skipped > 0 {
		atomic.AddUint64(&jobsSkipped, uint64(skipped))
	}
}

func ObserveFetchDuration(seconds float64) {
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&fetchCount, 1)
	atomic.AddUint64(&fetchNanos, uint64(seconds*1e9))
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&fetchCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&fetchNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		CompaniesFetched:   atomic.LoadUint64(&companiesFetched),
		PostingsDiscovered: atomic.LoadUint64(&postingsDiscovered),
		JobsInserted:       atomic.LoadUint64(&jobsInserted),
		JobsUpdated:        atomic.LoadUint64(&jobsUpdated),
		JobsSkipped:        atomic.LoadUint64(&jobsSkipped),
		ErrorsTotal:        atomic.LoadUint64(&errorsTotal),
		FetchSecondsAvg:    avg,
		ErrorsByType:       errorsTypeCopy,
		ErrorsByComponent:  errorsComponentCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
