package eval

import "fmt"

// Mode selects how predictions are scored.
type Mode string

const (
	// ModeMatch scores by normalized token equality against the gold query.
	ModeMatch Mode = "match"
	// ModeExec scores by running both queries and comparing result sets.
	ModeExec Mode = "exec"
	// ModeAll scores both ways.
	ModeAll Mode = "all"
)

// ParseMode validates a mode string from config or flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMatch, ModeExec, ModeAll:
		return Mode(s), nil
	case "":
		return ModeAll, nil
	}
	return "", fmt.Errorf("unknown evaluation mode: %q", s)
}

// Verdict is the per-example correctness judgment. Evaluator-internal
// failures (bad SQL, execution errors) surface here as a negative verdict
// with Error set, never as a returned error.
type Verdict struct {
	DBID         string `json:"db_id"`
	Gold         string `json:"gold"`
	Predicted    string `json:"predicted"`
	ExactMatch   bool   `json:"exact_match"`
	ExecMatch    bool   `json:"exec_match"`
	Error        string `json:"error,omitempty"`
	OrigQuestion string `json:"orig_question,omitempty"`
}

// Scores is the aggregate summary over all evaluated examples.
type Scores struct {
	Count         int     `json:"count"`
	ExactMatches  int     `json:"exact_matches"`
	ExecMatches   int     `json:"exec_matches"`
	ExactAccuracy float64 `json:"exact_accuracy"`
	ExecAccuracy  float64 `json:"exec_accuracy"`
}

// Evaluator is the scoring oracle consumed by the metrics aggregator.
type Evaluator interface {

	// EvaluateOne scores one prediction against the gold query token form.
	EvaluateOne(dbID string, goldToks []string, predicted string) Verdict

	// IsValidSQL reports whether the database accepts the query.
	IsValidSQL(query, dbID string) bool

	// Finalize computes the aggregate statistics.
	Finalize()

	// Scores returns the accumulated summary. Only meaningful after Finalize.
	Scores() Scores
}
