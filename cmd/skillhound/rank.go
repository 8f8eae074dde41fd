package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skillhound/skillhound/internal/config"
	"github.com/skillhound/skillhound/internal/database"
	"github.com/skillhound/skillhound/internal/model"
	"github.com/skillhound/skillhound/internal/ranker"
	"github.com/skillhound/skillhound/internal/report"
)

// NewRankCmd creates the rank command.
func NewRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print job and skill rankings from the stored data",
		Long: `Rank the scored postings and skills without touching the network.

Jobs are ordered by signed score: hits on skills you have count for a
posting, hits on skills you marked dont-have count against it. Skills
are ranked by how often they appear in the current top postings, so
the list answers "which skill is worth picking up next".`,
		Example: `  skillhound rank
  skillhound rank --json -o rankings.json
  skillhound rank --markdown`,
		RunE: runRankCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().Bool("json", false, "Output the report as JSON")
	cmd.Flags().Bool("markdown", false, "Output the report as Markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runRankCmd builds a rank report from the database and writes it in
// the requested format.
func runRankCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rpt, err := ranker.NewRanker(db).BuildReport(context.Background())
	if err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	return outputReport(cmd.OutOrStdout(), rpt, outputPath, jsonOut, markdownOut, verbose)
}

// outputReport writes the report in the requested format, creating the
// output file and its directory when a path is given.
func outputReport(stdout io.Writer, rpt *model.RankReport, path string, jsonOut, markdownOut, verbose bool) error {
	output := stdout
	if path != "" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case jsonOut:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case markdownOut:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewTextWriter(output, report.WithVerbose(verbose))
	}
	_, err := writer.Write(rpt)
	return err
}
