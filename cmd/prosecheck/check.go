package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"prosecheck/internal/diag"
	"prosecheck/internal/diagfmt"
	"prosecheck/internal/driver"
	"prosecheck/internal/observ"
	"prosecheck/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <path>...",
	Short: "Check files and directories for spelling and grammar",
	Long: `Check walks directories for supported files (markdown, HTML, Go, Python and
plain text), checks every piece of prose and prints the findings. The exit
status is 1 when a finding at or above --fail-on (default: warning) was
reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	addCheckerFlags(checkCmd)
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().String("progress", "off", "show live progress on stderr (auto|on|off)")
	checkCmd.Flags().Bool("fixes", false, "show suggested fixes (pretty and json)")
	checkCmd.Flags().Bool("preview", false, "show fix previews (pretty and json)")
	checkCmd.Flags().String("path-mode", "auto", "how to print paths (auto|relative|absolute|basename)")
	checkCmd.Flags().String("fail-on", "warning", "lowest severity that fails the run (info|warning|error)")
}

// checkRun is the outcome of runChecks shared by check and fix.
type checkRun struct {
	fs      *source.FileSet
	results []driver.FileResult
	bag     *diag.Bag
	timer   *observ.Timer
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format %q (expected pretty|short|json)", format)
	}
	pathModeFlag, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return err
	}
	pathMode, err := parsePathMode(pathModeFlag)
	if err != nil {
		return err
	}
	showFixes, err := cmd.Flags().GetBool("fixes")
	if err != nil {
		return err
	}
	showPreview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return err
	}
	failOnFlag, err := cmd.Flags().GetString("fail-on")
	if err != nil {
		return err
	}
	failOn, err := diag.ParseSeverity(failOnFlag)
	if err != nil {
		return err
	}
	progress, err := useProgress(cmd)
	if err != nil {
		return err
	}

	run, err := runChecks(cmd, args, progress && format != "json")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.Pretty(out, run.bag, run.fs, diagfmt.PrettyOpts{
			Color:       color,
			Context:     0,
			PathMode:    pathMode,
			ShowNotes:   true,
			ShowFixes:   showFixes || showPreview,
			ShowPreview: showPreview,
		})
		printSummary(cmd, out, run)
	case "short":
		diagfmt.Short(out, run.bag, run.fs, diagfmt.ShortOpts{PathMode: pathMode, ShowRule: true})
	case "json":
		if err := diagfmt.JSON(out, run.bag, run.fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     true,
			IncludeFixes:     showFixes || showPreview,
			IncludePreviews:  showPreview,
		}); err != nil {
			return err
		}
	}

	if run.timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), run.timer.Summary())
	}
	if run.bag.AtLeast(failOn) {
		return errFindings
	}
	return nil
}

// runChecks loads the config for args, checks every file and collects the
// diagnostics, sorted and de-duplicated.
func runChecks(cmd *cobra.Command, args []string, progress bool) (*checkRun, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd, targetDir(args))
	if err != nil {
		return nil, err
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return nil, err
	}
	lang, err := cmd.Flags().GetString("lang")
	if err != nil {
		return nil, err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, err
	}

	sess, err := newSession(ctx, cfg, clearCache)
	if err != nil {
		return nil, err
	}
	defer sess.Close()
	printNotes(cmd, sess.notes)

	files, err := driver.ListFiles(args, cfg.Check.Languages)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	fs := source.NewFileSetWithBase(baseDir())
	opts := driver.Options{
		Jobs:      cfg.Check.Jobs,
		Language:  lang,
		Languages: cfg.Check.Languages,
		Timeout:   timeout,
		Cache:     sess.cache,
		Settings:  sess.settings,
	}
	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
		opts.Timer = timer
	}

	var results []driver.FileResult
	if progress && len(files) > 1 {
		results, err = runCheckWithUI(ctx, "checking", fs, files, sess, opts)
	} else {
		results, err = driver.CheckFiles(ctx, fs, files, sess.checker, opts)
	}
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(cfg.Check.MaxDiagnostics)
	driver.Report(results, diag.NewDedupReporter(diag.BagReporter{Bag: bag}))
	bag.Sort()
	return &checkRun{fs: fs, results: results, bag: bag, timer: timer}, nil
}

func printSummary(cmd *cobra.Command, out io.Writer, run *checkRun) {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if quiet {
		return
	}
	var checked, cached, failed int
	for _, r := range run.results {
		switch {
		case r.Err != nil:
			failed++
		case r.Skipped:
		case r.Cached:
			checked++
			cached++
		default:
			checked++
		}
	}
	warnings := run.bag.Count(diag.SevWarning)
	infos := run.bag.Count(diag.SevInfo)
	line := fmt.Sprintf("%d file(s) checked", checked)
	if cached > 0 {
		line += fmt.Sprintf(" (%d cached)", cached)
	}
	if failed > 0 {
		line += fmt.Sprintf(", %d failed", failed)
	}
	line += fmt.Sprintf(": %d warning(s), %d note(s)", warnings, infos)
	if n := run.bag.Dropped(); n > 0 {
		line += fmt.Sprintf(" (%d more not shown)", n)
	}
	fmt.Fprintln(out, line)
}

func parsePathMode(s string) (diagfmt.PathMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return diagfmt.PathModeAuto, nil
	case "relative":
		return diagfmt.PathModeRelative, nil
	case "absolute":
		return diagfmt.PathModeAbsolute, nil
	case "basename":
		return diagfmt.PathModeBasename, nil
	default:
		return 0, fmt.Errorf("unknown path mode %q (expected auto|relative|absolute|basename)", s)
	}
}

func baseDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
