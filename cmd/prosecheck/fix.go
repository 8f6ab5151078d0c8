package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"prosecheck/internal/diag"
	"prosecheck/internal/diagfmt"
	"prosecheck/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <path>...",
	Short: "Apply suggested corrections to files",
	Long: `Fix checks the given files and applies suggested corrections. By default the
first fix is applied; --all applies one fix per finding (always-safe fixes
only, unless --heuristic), --id applies a single fix by identifier.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
}

func init() {
	addCheckerFlags(fixCmd)
	fixCmd.Flags().Bool("all", false, "apply one fix per finding")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("heuristic", false, "with --all, also apply spelling suggestions")
	fixCmd.Flags().Bool("preview", false, "show available fixes and their effect without writing")
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnceFlag, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	heuristic, err := cmd.Flags().GetBool("heuristic")
	if err != nil {
		return err
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnceFlag) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnceFlag {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}
	if heuristic && !applyAll {
		return fmt.Errorf("--heuristic only applies to --all")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}
	opts := fix.ApplyOptions{
		Mode:             mode,
		TargetID:         targetID,
		IncludeHeuristic: heuristic,
	}

	run, err := runChecks(cmd, args, false)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	if run.timer != nil {
		defer fmt.Fprint(cmd.ErrOrStderr(), run.timer.Summary())
	}

	if preview {
		withFixes := diag.NewBag(0)
		for _, d := range run.bag.Items() {
			if len(d.Fixes) > 0 {
				withFixes.Add(d)
			}
		}
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.OutOrStdout(), withFixes, run.fs, diagfmt.PrettyOpts{
			Color:       color,
			ShowFixes:   true,
			ShowPreview: true,
		})
		return nil
	}

	res, applyErr := fix.Apply(run.fs, run.bag.Items(), opts)
	return handleApplyResult(cmd.OutOrStdout(), res, applyErr)
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s] at %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability.String())
		}
	}

	if len(res.FileChanges) > 0 {
		fmt.Fprintln(out, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	if len(res.Applied) == 0 {
		fmt.Fprintln(out, "No fixes applied.")
	}
	return nil
}
