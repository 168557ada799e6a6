// Package diagnostics defines the structured event records surfaced to
// connected observers: shader compile failures, preset problems, engine
// state changes.
package diagnostics

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     string         `json:"code"`
	Summary  string         `json:"summary"`
	Detail   string         `json:"detail,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
}

// Reporter receives diagnostics as they happen. A nil-safe no-op reporter
// is available for headless runs.
type Reporter interface {
	Report(d Diagnostic)
}

// Discard drops every diagnostic.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

func Infof(code, summary string) Diagnostic {
	return Diagnostic{Severity: Info, Code: code, Summary: summary}
}

func Warnf(code, summary, detail string) Diagnostic {
	return Diagnostic{Severity: Warn, Code: code, Summary: summary, Detail: detail}
}

func Errf(code, summary, detail string) Diagnostic {
	return Diagnostic{Severity: Err, Code: code, Summary: summary, Detail: detail}
}
