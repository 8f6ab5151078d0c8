// Package fix applies the text edits carried by diagnostics to files on
// disk. Accepted edits are kept per file in the coordinates of the loaded
// content, checked for overlaps and for the expected old text, and spliced
// in one pass when the file is written.
package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"prosecheck/internal/diag"
	"prosecheck/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// IncludeHeuristic lets ApplyModeAll take safe-with-heuristics fixes
	// (spelling suggestions) in addition to always-safe ones.
	IncludeHeuristic bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
	// index of the diagnostic the fix came from
	owner int
}

// Apply selects fixes from diagnostics according to opts and writes the
// edited files. Fixes that cannot be applied land in Skipped with a reason;
// ErrNoFixes is returned when nothing was applied.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, errors.New("fix: nil FileSet")
	}

	candidates, skipped := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skipped...)
	sortCandidates(candidates)
	selected, skipped := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skipped...)

	plans := newPlanSet(fs)
	for _, cand := range selected {
		n, err := plans.stage(cand.fix.Edits)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: err.Error()})
			continue
		}
		result.Applied = append(result.Applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			PrimaryPath:   fs.DisplayPath(fs.Get(cand.diag.Primary.File)),
			EditCount:     n,
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	changes, err := plans.write()
	result.FileChanges = changes
	return result, err
}

// gatherCandidates flattens the fixes of every diagnostic into candidates.
// Fixes without edits and repeated fix IDs are skipped. A fix without an ID
// gets one built from the diagnostic code, file, start and fix index.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)

	seen := make(map[string]bool)
	order := 0
	for owner, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{
					ID:     f.ID,
					Title:  f.Title,
					Reason: "fix has no edits",
				})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if seen[f.ID] {
				skips = append(skips, SkippedFix{
					ID:     f.ID,
					Title:  f.Title,
					Reason: "duplicate fix id",
				})
				continue
			}
			seen[f.ID] = true
			cands = append(cands, candidate{
				diag:  d,
				fix:   f,
				order: order,
				owner: owner,
			})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders candidates by file and position, then by the
// order their diagnostics were reported; preferred fixes come first among
// the alternatives of one diagnostic.
func sortCandidates(candidates []candidate) {
	slices.SortStableFunc(candidates, func(x, y candidate) int {
		return cmp.Or(
			cmp.Compare(x.diag.Primary.File, y.diag.Primary.File),
			cmp.Compare(x.diag.Primary.Start, y.diag.Primary.Start),
			cmp.Compare(x.diag.Primary.End, y.diag.Primary.End),
			cmp.Compare(x.owner, y.owner),
			boolFirst(x.fix.IsPreferred, y.fix.IsPreferred),
			cmp.Compare(x.fix.Applicability, y.fix.Applicability),
			cmp.Compare(x.order, y.order),
		)
	})
}

func boolFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	}
	return 1
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{
			ID:     opts.TargetID,
			Reason: "fix id not found",
		}}
	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		// one fix per diagnostic: alternatives replace the same text
		taken := make(map[int]bool)
		for _, cand := range candidates {
			reason := ""
			switch {
			case taken[cand.owner]:
				reason = "alternative of an already selected fix"
			case !acceptable(cand.fix.Applicability, opts.IncludeHeuristic):
				reason = fmt.Sprintf("applicability is %s", cand.fix.Applicability.String())
			}
			if reason != "" {
				skipped = append(skipped, SkippedFix{
					ID:     cand.fix.ID,
					Title:  cand.fix.Title,
					Reason: reason,
				})
				continue
			}
			taken[cand.owner] = true
			selected = append(selected, cand)
		}
		return selected, skipped
	case ApplyModeOnce:
		var selected []candidate
		var fallback *candidate
		for i := range candidates {
			cand := candidates[i]
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				selected = []candidate{cand}
				break
			}
			if fallback == nil {
				tmp := cand
				fallback = &tmp
			}
		}
		if len(selected) == 0 && fallback != nil {
			selected = []candidate{*fallback}
		}
		return selected, nil
	default:
		return nil, nil
	}
}

func acceptable(app diag.FixApplicability, heuristic bool) bool {
	switch app {
	case diag.FixApplicabilityAlwaysSafe:
		return true
	case diag.FixApplicabilitySafeWithHeuristics:
		return heuristic
	}
	return false
}

