// Package backoff provides a bounded exponential backoff generator with
// jitter, used by the retry loops that talk to external AWS APIs.
package backoff
