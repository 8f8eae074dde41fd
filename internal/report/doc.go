// Package report renders ranking reports in text, JSON, and Markdown.
//
// All writers consume the same model.RankReport and differ only in
// presentation: text for quick terminal checks, JSON for tooling, and
// Markdown for sharing.
package report
