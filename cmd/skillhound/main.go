// Package main provides the entry point for the skillhound CLI.
//
// Skillhound crawls a job-listing search engine for postings matching a
// set of weighted skills, scores every posting per skill, and produces
// deterministic rankings of both jobs and skills.
//
// Usage:
//
//	skillhound serve --board https://board.example
//	skillhound crawl --board https://board.example golang
//	skillhound rank --markdown
//
// See --help for all available options.
package main

// main is the entry point for skillhound.
func main() {
	Execute()
}
