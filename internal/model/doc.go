// Package model defines the core data structures used throughout skillhound.
//
// This package contains the following main types:
//   - Posting: One tracked job listing fetched from the external board
//   - Skill: A named search/scoring criterion with a wanted/unwanted polarity
//   - AnalysisRow: The sparse per-posting vector of skill hit-counts
//   - Constraint: The singleton set of non-skill search filters
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, scorer, ranker, database) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for API output,
// task-queue payloads, and database storage.
package model
