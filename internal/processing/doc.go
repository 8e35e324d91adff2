// Package processing tracks extraction of a single data source.
//
// A Machine submits the source, then polls its status on a fixed interval and
// maps each report to a State with a fixed progress value:
//
//	Idle 0, Submitting 15, Queued 30, Extracting 60, Processed 100
//
// Progress never decreases during a run and only reaches 100 when the backend
// reports Processed, at which point the timer stops and OnComplete fires.
// Failed polls back off exponentially up to MaxBackoff without touching
// progress; after MaxFailures in a row the run is Stalled until Retry.
package processing
