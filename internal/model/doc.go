// Package model defines the core data types shared across the recorder:
// resolved instruments, raw provider ticks, and canonical tick records.
package model
