package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the behavior of the job board being crawled and the
// throughput limits of a polite scraper.
const (
	// DefaultMaxPages caps pagination per crawl query. Search result
	// estimates are unreliable beyond the first few pages, and deeper
	// pages are dominated by duplicates, so seven pages is the point of
	// diminishing returns.
	DefaultMaxPages = 7

	// DefaultPageSize is the number of results the board returns per
	// search page. Used together with the board's total-match estimate
	// to decide when pagination can stop early.
	DefaultPageSize = 10

	// DefaultTopJobs is how many postings the top-jobs view returns.
	DefaultTopJobs = 10

	// DefaultTimeout is the per-request timeout against the job board.
	// The board is a public site with normal latency; 30 seconds leaves
	// room for slow detail pages without hanging a worker for long.
	DefaultTimeout = 30 * time.Second

	// DefaultCrawlDelay is the politeness delay between successive
	// search page requests within one crawl.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultWorkers is the number of concurrent scoring workers.
	// Scoring is I/O bound (one detail fetch per task), so a small pool
	// keeps throughput up without hammering the board.
	DefaultWorkers = 4

	// DefaultQueueVisibility is how long a claimed task stays invisible
	// before it is redelivered to another worker. It must exceed the
	// worst-case detail fetch plus scoring time.
	DefaultQueueVisibility = 2 * time.Minute

	// DefaultQueuePoll is the delay between queue claim attempts when
	// the queue is empty.
	DefaultQueuePoll = 500 * time.Millisecond

	// DefaultMaxAttempts is how many deliveries a task gets before the
	// queue discards it. Transient board errors resolve quickly; a task
	// failing five times is stuck on a removed posting.
	DefaultMaxAttempts = 5

	// DefaultServerPort is the HTTP API port.
	DefaultServerPort = 8080

	// DefaultUserAgent identifies skillhound in HTTP requests.
	// A descriptive User-Agent is good practice and allows board
	// operators to identify scraper traffic in their logs.
	DefaultUserAgent = "skillhound/1.0 (+https://github.com/skillhound/skillhound)"

	// DefaultMaxBodySize limits the response body size read from the
	// board. 2MB is generous for an HTML posting page while preventing
	// memory exhaustion from unexpected responses.
	DefaultMaxBodySize = 2 * 1024 * 1024 // 2MB

	// AppName is the application name used for XDG directory paths.
	AppName = "skillhound"
)

// Config holds all configuration options for skillhound.
// It is populated from CLI flags and an optional config file, then passed
// through the application via dependency injection rather than global state.
type Config struct {
	// BoardURL is the base URL of the job-listing search engine.
	BoardURL string

	// DBDir is the directory holding the SQLite database. Defaults to
	// the XDG data directory (~/.local/share/skillhound on Linux).
	DBDir string

	// MaxPages caps how many search pages one crawl fetches.
	MaxPages int

	// PageSize is the board's results-per-page. Only used for the
	// early-stop heuristic; the board controls the real page size.
	PageSize int

	// TopJobs is the size of the top-jobs display window.
	TopJobs int

	// Timeout is the per-request timeout for board fetches.
	Timeout time.Duration

	// CrawlDelay is the politeness delay between search page requests.
	CrawlDelay time.Duration

	// Workers is the number of concurrent scoring workers.
	Workers int

	// QueueVisibility is the task redelivery timeout.
	QueueVisibility time.Duration

	// QueuePoll is the idle queue polling interval.
	QueuePoll time.Duration

	// MaxAttempts is the per-task delivery cap before discard.
	MaxAttempts int

	// ServerPort is the HTTP API listen port.
	ServerPort int

	// UserAgent is the User-Agent header sent with board requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is an explicit config file path. If empty, the
	// tool searches for .skillhound in the current directory and then
	// in the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (timeouts, page caps,
// port numbers). This also serves as documentation of what the defaults
// are.
func NewConfig() *Config {
	return &Config{
		MaxPages:        DefaultMaxPages,
		PageSize:        DefaultPageSize,
		TopJobs:         DefaultTopJobs,
		Timeout:         DefaultTimeout,
		CrawlDelay:      DefaultCrawlDelay,
		Workers:         DefaultWorkers,
		QueueVisibility: DefaultQueueVisibility,
		QueuePoll:       DefaultQueuePoll,
		MaxAttempts:     DefaultMaxAttempts,
		ServerPort:      DefaultServerPort,
		UserAgent:       DefaultUserAgent,
		MaxBodySize:     DefaultMaxBodySize,
		DBDir:           XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for skillhound.
// On Linux: ~/.local/share/skillhound
// On macOS: ~/Library/Application Support/skillhound
// On Windows: %LOCALAPPDATA%\skillhound
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for skillhound.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks that the configuration has usable values.
// It returns the first problem found as a sentinel error so callers can
// test for specific failures with errors.Is.
func (c *Config) Validate() error {
	if c.BoardURL == "" {
		return ErrNoBoardURL
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
