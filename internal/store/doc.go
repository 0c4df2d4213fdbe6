// Package store implements the persistence dispatcher and its
// backends. One backend is selected at startup from configuration;
// every backend appends canonical tick records under a ticker-scoped
// namespace (file, collection, or table partition key).
package store
