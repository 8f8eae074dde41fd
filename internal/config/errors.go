package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoBoardURL is returned when no job board base URL is configured.
	// Every crawl needs a board to search; there is no usable default.
	ErrNoBoardURL = errors.New("no board URL configured: set --board or the board key in the config file")

	// ErrInvalidMaxPages is returned when the page cap is not positive.
	// A cap of zero would make every crawl a no-op.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidPageSize is returned when the page size is not positive.
	// The early-stop heuristic divides by this value.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate fetch failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	// Zero workers would mean scoring tasks are enqueued but never run.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
