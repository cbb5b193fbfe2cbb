package output

// Statuses reported per input by format and validate.
const (
	StatusOK        = "ok"
	StatusChanged   = "changed"
	StatusInvalid   = "invalid"
	StatusFailed    = "failed"
	StatusUnchanged = "unchanged"
)

// DiagnosticOutput is one diagnostic in JSON output.
type DiagnosticOutput struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Offset  int    `json:"offset"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// ValidateFileResult is the validation outcome of one input.
type ValidateFileResult struct {
	Path        string             `json:"path"`
	Valid       bool               `json:"valid"`
	Tables      []string           `json:"tables,omitempty"`
	Diagnostics []DiagnosticOutput `json:"diagnostics,omitempty"`
}

// ValidateOutput is the JSON payload of the validate command.
type ValidateOutput struct {
	Dialect string               `json:"dialect"`
	Files   []ValidateFileResult `json:"files"`
	Valid   bool                 `json:"valid"`
}

// FormatFileResult is the formatting outcome of one input.
type FormatFileResult struct {
	Path        string             `json:"path"`
	Status      string             `json:"status"`
	Output      string             `json:"output,omitempty"`
	Diagnostics []DiagnosticOutput `json:"diagnostics,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// FormatSummary counts format outcomes.
type FormatSummary struct {
	Files     int `json:"files"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Invalid   int `json:"invalid"`
	Failed    int `json:"failed"`
}

// FormatOutput is the JSON payload of the format command.
type FormatOutput struct {
	Dialect string             `json:"dialect"`
	Files   []FormatFileResult `json:"files"`
	Summary FormatSummary      `json:"summary"`
}

// TokenOutput is one token in JSON output.
type TokenOutput struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Literal string `json:"literal"`
	Offset  int    `json:"offset"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// TokensOutput is the JSON payload of the tokens command.
type TokensOutput struct {
	Dialect     string             `json:"dialect"`
	Tokens      []TokenOutput      `json:"tokens"`
	Diagnostics []DiagnosticOutput `json:"diagnostics,omitempty"`
}
