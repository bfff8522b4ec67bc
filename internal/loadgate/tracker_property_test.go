//go:build property

package loadgate

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestTrackerProperties checks the gate over random report sequences
func TestTrackerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4242)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// Property: the gate opens exactly when the Nth distinct id arrives
	properties.Property("opens after the Nth distinct report", prop.ForAll(
		func(threshold int, reports []int) bool {
			tracker := New(WithThreshold(threshold))
			settles := 0
			tracker.OnSettle(func(Snapshot) { settles++ })

			distinct := make(map[int]struct{})
			for _, r := range reports {
				tracker.ReportLoaded(fmt.Sprintf("leaf-%d", r))
				distinct[r] = struct{}{}

				wantLoading := len(distinct) < threshold
				if tracker.IsLoading() != wantLoading {
					return false
				}
			}

			if len(distinct) >= threshold {
				return settles == 1
			}
			return settles == 0
		},
		gen.IntRange(1, 8),
		gen.SliceOf(gen.IntRange(0, 10)),
	))

	// Property: the loading flag never goes false -> true without Reset
	properties.Property("never reopens loading on its own", prop.ForAll(
		func(reports []int) bool {
			tracker := New(WithThreshold(3))
			opened := false
			for _, r := range reports {
				tracker.ReportLoaded(fmt.Sprintf("leaf-%d", r))
				if opened && tracker.IsLoading() {
					return false
				}
				opened = opened || !tracker.IsLoading()
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	// Property: registration-derived threshold equals the distinct registrations
	properties.Property("threshold follows registrations", prop.ForAll(
		func(ids []int) bool {
			tracker := New()
			distinct := make(map[int]struct{})
			for _, id := range ids {
				tracker.Register(fmt.Sprintf("leaf-%d", id))
				distinct[id] = struct{}{}
			}
			return tracker.Snapshot().Threshold == len(distinct)
		},
		gen.SliceOf(gen.IntRange(0, 20)),
	))

	// Property: dispose before the deadline means the fallback never writes
	properties.Property("dispose cancels fallback", prop.ForAll(
		func(timeoutMs int, advanceMs int) bool {
			clock := NewManualClock()
			tracker := New(WithClock(clock))
			tracker.Register("a")
			tracker.ForceTimeout(time.Duration(timeoutMs) * time.Millisecond)
			tracker.Dispose()
			clock.Advance(time.Duration(advanceMs) * time.Millisecond)
			return tracker.IsLoading() && len(tracker.Snapshot().Ready) == 0
		},
		gen.IntRange(1, 10000),
		gen.IntRange(0, 20000),
	))

	properties.TestingRun(t)
}
