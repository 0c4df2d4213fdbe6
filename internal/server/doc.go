// Package server exposes the recording control API over HTTP: start and
// stop recordings, list live sessions, validate access tokens, and
// serve health and metrics endpoints.
package server
