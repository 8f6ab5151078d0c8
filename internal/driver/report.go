package driver

import (
	"errors"
	"fmt"

	"prosecheck/internal/check"
	"prosecheck/internal/diag"
	"prosecheck/internal/source"
)

// Report converts results into diagnostics. File failures become errors
// at the start of the file, roots whose checker failed become one warning
// per file, and every typo goes through diag.FromTypo.
func Report(results []FileResult, reporter diag.Reporter) {
	for _, res := range results {
		at := source.Span{File: res.FileID}
		if res.Err != nil {
			code := diag.ParseFailed
			switch {
			case errors.Is(res.Err, ErrUnknownLanguage):
				code = diag.UnknownLanguage
			case res.Language == "":
				code = diag.IOLoadFileError
			case errors.Is(res.Err, check.ErrCanceled):
				code = diag.CheckerFailed
			}
			diag.ReportError(reporter, code, at, fmt.Sprintf("%s: %v", res.Path, res.Err)).Emit()
			continue
		}
		if res.CheckerErrors > 0 {
			diag.ReportWarning(reporter, diag.CheckerFailed, at,
				fmt.Sprintf("checker failed on %d of %d context roots; those roots were not checked", res.CheckerErrors, res.Roots)).Emit()
		}
		for _, t := range res.Typos {
			reporter.Report(diag.FromTypo(t))
		}
	}
}
