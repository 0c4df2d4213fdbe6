// Package recorder manages recording sessions. A session resolves a
// ticker to an instrument, subscribes it on the shared stream, and runs
// a polling loop that normalizes, deduplicates and persists ticks until
// stopped.
package recorder
