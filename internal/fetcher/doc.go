// Package fetcher implements the HTTP client for the job board.
//
// The board exposes two page shapes:
//
//   - Search results: GET {board}/jobs?q={query}&start={offset} plus any
//     user-captured constraint parameters. Each result card carries a
//     data-id attribute and a link to the posting; the page also carries
//     a result-count element with the board's total match estimate.
//   - Posting detail: one page per posting with title, company,
//     location, salary, and description blocks.
//
// Fetch failures are wrapped in *FetchError so callers can distinguish
// transient conditions (timeouts, 5xx, throttling) from permanent ones.
package fetcher
