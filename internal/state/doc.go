// Package state shares the latest CRM list data between the background
// refresher and the UI.
//
// The refresher calls Store.Update after each round; the UI reads
// Store.Snapshot on its own tick. A failed refresh keeps the previous lists and
// records the error, so the UI can keep rendering stale data with a warning.
// Two failures in a row mark the snapshot offline. An ErrUnauthorized marks it
// unauthorized instead, which the UI turns into a login prompt.
//
// Snapshots are copies: slices are cloned and the error is rewrapped, so the
// UI can hold on to one without racing the refresher.
//
// The zero Store is ready to use.
package state
