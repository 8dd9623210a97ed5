// Package watch reports changes to a fixed set of input files.
//
// Editors commonly replace a file instead of writing it in place, so the
// watcher subscribes to each file's directory and filters events by name.
// Bursts of events are collapsed into one callback after a quiet period.
package watch
