package diag

import "prosecheck/internal/source"

// New builds a diagnostic whose category follows from code.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Category: code.Category(),
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(fix Fix) Diagnostic {
	d.Fixes = append(d.Fixes, fix)
	return d
}

// PreferredFix returns the preferred fix, or the first one.
func (d Diagnostic) PreferredFix() (Fix, bool) {
	for _, f := range d.Fixes {
		if f.IsPreferred {
			return f, true
		}
	}
	if len(d.Fixes) > 0 {
		return d.Fixes[0], true
	}
	return Fix{}, false
}

// ReportBuilder assembles one diagnostic and hands it to a Reporter on
// Emit. A nil builder ignores every call.
type ReportBuilder struct {
	r       Reporter
	d       Diagnostic
	emitted bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{r: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithNote(sp, msg)
	}
	return b
}

// WithRule records the checker rule that produced the finding.
func (b *ReportBuilder) WithRule(id string) *ReportBuilder {
	if b != nil {
		b.d.RuleID = id
	}
	return b
}

func (b *ReportBuilder) WithFix(fix Fix) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithFix(fix)
	}
	return b
}

// Emit reports the diagnostic; later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.r != nil {
		b.r.Report(b.d)
	}
}

// Diagnostic returns the diagnostic without emitting it.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.d
}
