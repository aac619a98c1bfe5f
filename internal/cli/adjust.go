package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sound2text/sound2text/internal/subtitle"
	"github.com/spf13/cobra"
)

var adjustCmd = &cobra.Command{
	Use:   "adjust [subtitle_file]",
	Short: "Repair subtitle entries that flash by too quickly",
	Long: `Repair an SRT file whose entries stay on screen too briefly to read.

Every entry displayed for less than the minimum duration is stretched:
the first entry extends into the following gap, the last entry pulls its
start back, and a middle entry borrows half the missing time from the
previous entry and extends the other half into the gap before the next
one. Neighbors are never shrunk below their own minimum and a small gap
is always kept between consecutive entries.

Malformed records are skipped with a warning, overlapping entries are
reported, and a modification report lists every repaired entry.

Examples:
  sound2text adjust episode.srt
  sound2text adjust episode.srt --min-duration 250ms
  sound2text adjust episode.srt --dry-run
  sound2text adjust episode.srt -o fixed.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runAdjust,
}

func init() {
	rootCmd.AddCommand(adjustCmd)

	adjustCmd.Flags().
		Duration("min-duration", subtitle.DefaultMinDuration, "Minimum display duration an entry is stretched to")
	adjustCmd.Flags().
		Duration("min-entry-duration", subtitle.DefaultMinEntryDuration, "Floor a neighboring entry may be shrunk to when borrowed from")
	adjustCmd.Flags().
		Duration("min-gap", subtitle.DefaultMinGap, "Gap preserved between consecutive entries")
	adjustCmd.Flags().
		Bool("dry-run", false, "Print the modification report without writing a file")
}

func runAdjust(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]

	minDuration, _ := cmd.Flags().GetDuration("min-duration")
	minEntryDuration, _ := cmd.Flags().GetDuration("min-entry-duration")
	minGap, _ := cmd.Flags().GetDuration("min-gap")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	outputPath, _ := cmd.Flags().GetString("output")

	if minDuration <= 0 {
		return fmt.Errorf("min-duration must be positive, got %v", minDuration)
	}
	if minEntryDuration <= 0 {
		return fmt.Errorf(
			"min-entry-duration must be positive, got %v",
			minEntryDuration,
		)
	}
	if minGap < 0 {
		return fmt.Errorf("min-gap cannot be negative, got %v", minGap)
	}

	if ext := strings.ToLower(filepath.Ext(subtitlePath)); ext != ".srt" {
		logger.Warnw("Input does not look like an SRT file",
			"extension", filepath.Ext(subtitlePath),
		)
	}

	if outputPath == "" {
		outputPath = adjustedOutputPath(subtitlePath)
	}

	logger.Infow("Adjusting subtitle durations",
		"input", subtitlePath,
		"output", outputPath,
		"min_duration", minDuration.String(),
		"min_gap", minGap.String(),
	)

	entries, diags, err := subtitle.Load(subtitlePath)
	if err != nil {
		return err
	}

	for _, diag := range diags {
		logger.Warnw("Skipping malformed record",
			"record", diag.Record,
			"reason", diag.Message,
		)
	}

	if len(entries) == 0 {
		return fmt.Errorf("%s: %w", subtitlePath, subtitle.ErrNoEntries)
	}

	logger.Infow("Parsed subtitle file",
		"entries", len(entries),
		"skipped", len(diags),
	)

	for _, overlap := range subtitle.Overlaps(entries) {
		logger.Warnw("Overlapping timestamps",
			"entries", fmt.Sprintf("%d and %d", overlap.Record, overlap.Record+1),
		)
	}

	opts := subtitle.AdjustOptions{
		MinDuration:      minDuration,
		MinEntryDuration: minEntryDuration,
		MinGap:           minGap,
	}
	mods := subtitle.AdjustShortDurations(entries, opts)

	if !dryRun {
		writer := subtitle.Writer{}
		if err := writer.WriteFile(outputPath, entries); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}

	fmt.Println("\n--- Modification Report ---")
	if len(mods) > 0 {
		fmt.Printf("Total modifications made: %d\n", len(mods))
		for _, mod := range mods {
			fmt.Printf("  - %s\n", mod)
		}
	} else {
		fmt.Println("No modifications were needed.")
	}
	fmt.Println("-------------------------")
	fmt.Println()

	if dryRun {
		fmt.Println("Dry run: no file was written.")
		return nil
	}

	fmt.Printf("Adjustment complete. New file saved as '%s'\n", outputPath)
	return nil
}

// adjustedOutputPath names the repaired copy next to the input.
func adjustedOutputPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_adjusted" + ext
}
