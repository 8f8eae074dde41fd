// Package server exposes the HTTP API: skill management, search
// constraint capture, and the job and skill rankings.
//
// Mutating skill routes run reanalysis synchronously before any crawl
// is scheduled, so the response only returns once existing postings
// reflect the updated skill set. Crawling itself stays asynchronous
// through the task queue.
package server
