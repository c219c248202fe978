// Package storage persists the artifacts of a run: the extracted-events JSON
// array, optional raw API capture files, and the per-calendar snapshots diff
// mode compares against.
package storage
