package metrics

import (
	"fmt"

	"github.com/google/uuid"

	"sqlbench/internal/dataset"
	"sqlbench/internal/eval"
	"sqlbench/internal/logger"
	"sqlbench/internal/schema"
	"sqlbench/pkg/config"
)

// Normalization selects the token form of the gold query handed to the
// evaluator. Historically the single-prediction path used raw tokens while
// the beam path used underscore-joined tokens; both are explicit here.
type Normalization string

const (
	NormRaw        Normalization = "raw"
	NormUnderscore Normalization = "underscore"
)

// ParseNormalization validates a normalization string from config.
func ParseNormalization(s string) (Normalization, error) {
	switch Normalization(s) {
	case NormRaw, NormUnderscore:
		return Normalization(s), nil
	case "":
		return NormUnderscore, nil
	}
	return "", fmt.Errorf("unknown gold normalization: %q", s)
}

// SchemaSource is the slice of the dataset the aggregator needs.
type SchemaSource interface {
	Schemas() map[string]*schema.Schema
}

// Report is the finalized evaluation output.
type Report struct {
	RunID       string         `json:"run_id"`
	PerItem     []eval.Verdict `json:"per_item"`
	TotalScores eval.Scores    `json:"total_scores"`
}

// Aggregator records one verdict per example and produces the finalized
// report. It owns the result sequence exclusively; it is not safe for
// concurrent use.
type Aggregator struct {
	ds         SchemaSource
	ev         eval.Evaluator
	singleNorm Normalization
	beamNorm   Normalization
	runID      string
	results    []eval.Verdict
	report     *Report
}

// Option adjusts aggregator behavior.
type Option func(*Aggregator)

// WithBeamNormalization overrides the gold normalization of RecordBeam.
func WithBeamNormalization(n Normalization) Option {
	return func(a *Aggregator) { a.beamNorm = n }
}

// WithSingleNormalization overrides the gold normalization of RecordSingle.
func WithSingleNormalization(n Normalization) Option {
	return func(a *Aggregator) { a.singleNorm = n }
}

// New derives the per-database foreign-key maps from the dataset schemas
// and wires up an execution-backed evaluator over the configured backend.
func New(ds SchemaSource, dbcfg config.DBConfig, evalCfg config.EvalConfig, opts ...Option) (*Aggregator, error) {
	mode, err := eval.ParseMode(evalCfg.Mode)
	if err != nil {
		return nil, err
	}
	fkMaps := make(map[string]eval.ForeignKeyMap)
	for dbID, s := range ds.Schemas() {
		fkMaps[dbID] = eval.BuildForeignKeyMap(s.Orig)
	}
	ev := eval.NewExecEvaluator(dbcfg, fkMaps, mode, evalCfg.TimeoutSec)

	beamNorm, err := ParseNormalization(evalCfg.BeamNormalization)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithBeamNormalization(beamNorm)}, opts...)
	return NewWithEvaluator(ds, ev, opts...), nil
}

// NewWithEvaluator builds an aggregator around an externally supplied
// scoring oracle.
func NewWithEvaluator(ds SchemaSource, ev eval.Evaluator, opts ...Option) *Aggregator {
	a := &Aggregator{
		ds:         ds,
		ev:         ev,
		singleNorm: NormRaw,
		beamNorm:   NormUnderscore,
		runID:      uuid.NewString(),
	}
	for _, opt := range opts {
		opt(a)
	}
	logger.Info("evaluation run %s started", a.runID)
	return a
}

// RunID identifies this aggregation session.
func (a *Aggregator) RunID() string {
	return a.runID
}

func normalizeGold(toks []string, norm Normalization) []string {
	if norm == NormRaw {
		return toks
	}
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = schema.AddUnderscore(tok)
	}
	return out
}

// RecordSingle evaluates one prediction against the gold query and
// appends the verdict.
func (a *Aggregator) RecordSingle(item *dataset.Item, predicted, origQuestion string) {
	gold := normalizeGold(item.Orig.QueryToks, a.singleNorm)
	v := a.ev.EvaluateOne(item.Schema.DBID, gold, predicted)
	if origQuestion != "" {
		v.OrigQuestion = origQuestion
	}
	a.results = append(a.results, v)
}

// RecordBeam evaluates the first syntactically valid candidate from a
// best-first beam; when none validates, the top candidate is evaluated
// anyway so every item yields exactly one verdict.
func (a *Aggregator) RecordBeam(item *dataset.Item, candidates []string, origQuestion string) error {
	if len(candidates) == 0 {
		return fmt.Errorf("empty beam for database %s", item.Schema.DBID)
	}
	gold := normalizeGold(item.Orig.QueryToks, a.beamNorm)

	selected := candidates[0]
	for _, candidate := range candidates {
		if a.ev.IsValidSQL(candidate, item.Schema.DBID) {
			selected = candidate
			break
		}
	}
	v := a.ev.EvaluateOne(item.Schema.DBID, gold, selected)
	if origQuestion != "" {
		v.OrigQuestion = origQuestion
	}
	a.results = append(a.results, v)
	return nil
}

// Finalize closes the aggregation session and returns the report with
// all per-item verdicts in call order. Repeated calls return the same
// report.
func (a *Aggregator) Finalize() *Report {
	if a.report != nil {
		logger.Warn("run %s finalized more than once", a.runID)
		return a.report
	}
	a.ev.Finalize()
	a.report = &Report{
		RunID:       a.runID,
		PerItem:     a.results,
		TotalScores: a.ev.Scores(),
	}
	logger.Info("evaluation run %s finalized: %d items", a.runID, len(a.results))
	return a.report
}
