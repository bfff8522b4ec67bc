package loadgate

import "context"

// Subscribe registers id with the tracker and reports it once results is
// closed. Every value received is handed to each (when non-nil) before the
// report; the tracker itself never looks at the values, so a failed asset
// counts the same as a loaded one.
//
// If ctx ends first the goroutine stops draining and id is not reported.
// The timeout fallback is what opens the gate in that case.
func Subscribe[T any](ctx context.Context, t *Tracker, id string, results <-chan T, each func(T)) {
	t.Register(id)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case r, ok := <-results:
				if !ok {
					t.ReportLoaded(id)
					return
				}
				if each != nil {
					each(r)
				}
			}
		}
	}()
}
