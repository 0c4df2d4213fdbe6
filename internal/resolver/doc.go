// Package resolver implements the provider REST API client used
// outside the recording hot path: instrument search ("SYMBOL.EXCHANGE"
// to canonical identity) and access token validation.
package resolver
