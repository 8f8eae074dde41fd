// Package scorer counts skill hits in posting text and maintains the
// analysis matrix.
//
// Scoring is column-granular: one posting×skill cell is written at a
// time, so concurrent scoring tasks and reanalysis runs never clobber
// each other's columns. Every write is an idempotent upsert, which is
// what makes at-least-once task delivery safe.
package scorer
