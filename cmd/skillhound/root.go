package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for skillhound.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skillhound",
		Short: "Job-posting crawler and skill-weighted ranking engine",
		Long: `Skillhound crawls a job-listing search engine for postings matching
your skills, scores every posting against the full skill set, and ranks
both the jobs (best match first) and the skills (by how much they
discriminate the top postings).

Skills carry a polarity: skills you have raise a posting's score, skills
you want to avoid lower it. Adding or removing a skill re-scores the
postings already stored without crawling again.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewRankCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
