// Package database provides SQLite-based storage for skillhound.
//
// Five logical tables live in one database file:
//   - posting_ids: the dedup index of every posting identifier ever seen
//   - postings: posting records (shell on discovery, filled in by the scorer)
//   - skills: the user's ordered skill set
//   - constraints: the singleton non-skill search filter set
//   - analysis: one row per (posting, skill) pair holding the hit-count
//
// The analysis table is the sparse jobs-by-skills matrix: a "column" for
// skill S is the set of rows with skill = S. Storing one row per pair
// makes column upserts naturally atomic and means adding a skill never
// requires a schema migration.
//
// The task queue shares the same database file; see the queue package.
package database
