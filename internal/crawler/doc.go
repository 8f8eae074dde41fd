// Package crawler walks the job board's search results for one skill
// and schedules a scoring task for every posting it has not seen
// before.
//
// The crawl is the only producer of posting ids. Deduplication happens
// through an atomic check-and-insert on the id index, so overlapping
// crawls for related skills never schedule the same posting twice. The
// posting shell and its id-index entry are written before the scoring
// task is published; a consumer can therefore always resolve the id it
// was handed.
package crawler
