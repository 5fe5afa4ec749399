// Package progress animates an in-flight indicator for long-running console
// work.
//
// The Spinner owns a single console row and is safe for concurrent Start,
// Stop, and SetLabel calls. Terminal ownership is cooperative: at most one
// spinner should write to a given terminal at a time, which callers must
// arrange themselves.
package progress
