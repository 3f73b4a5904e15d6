package eval

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"sqlbench/internal/db"
	"sqlbench/internal/logger"
	"sqlbench/pkg/config"
)

const defaultTimeoutSec = 30

// ExecEvaluator scores predictions directly against the benchmark
// databases. Exact matching compares normalized token sequences with
// foreign-key columns canonicalized through the per-database lookup map;
// execution matching runs gold and predicted queries and compares their
// unordered result sets. Connections are opened lazily per database id
// and cached for the lifetime of the evaluator.
type ExecEvaluator struct {
	dbcfg      config.DBConfig
	fkMaps     map[string]ForeignKeyMap
	mode       Mode
	timeoutSec int
	conns      map[string]*sql.DB
	scores     Scores
	finalized  bool
}

// NewExecEvaluator builds an evaluator over the configured database backend.
func NewExecEvaluator(dbcfg config.DBConfig, fkMaps map[string]ForeignKeyMap, mode Mode, timeoutSec int) *ExecEvaluator {
	if timeoutSec <= 0 {
		timeoutSec = defaultTimeoutSec
	}
	return &ExecEvaluator{
		dbcfg:      dbcfg,
		fkMaps:     fkMaps,
		mode:       mode,
		timeoutSec: timeoutSec,
		conns:      make(map[string]*sql.DB),
	}
}

// conn returns the cached connection for a database id, opening it on
// first use.
func (e *ExecEvaluator) conn(dbID string) (*sql.DB, error) {
	if c, ok := e.conns[dbID]; ok {
		return c, nil
	}
	driver, dsn, err := config.BuildDriverAndDSN(e.dbcfg, dbID)
	if err != nil {
		return nil, err
	}
	c, err := db.Open(driver, dsn, e.timeoutSec)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbID, err)
	}
	e.conns[dbID] = c
	return c, nil
}

// EvaluateOne scores one prediction. All internal failures are absorbed
// into the verdict.
func (e *ExecEvaluator) EvaluateOne(dbID string, goldToks []string, predicted string) Verdict {
	gold := strings.Join(goldToks, " ")
	v := Verdict{DBID: dbID, Gold: gold, Predicted: predicted}

	if e.mode == ModeMatch || e.mode == ModeAll {
		v.ExactMatch = e.tokensEqual(dbID, goldToks, predicted)
	}
	if e.mode == ModeExec || e.mode == ModeAll {
		match, err := e.execEqual(dbID, gold, predicted)
		if err != nil {
			v.Error = err.Error()
		}
		v.ExecMatch = match
	}

	e.scores.Count++
	if v.ExactMatch {
		e.scores.ExactMatches++
	}
	if v.ExecMatch {
		e.scores.ExecMatches++
	}
	return v
}

// tokensEqual compares gold and predicted token sequences after
// normalization and foreign-key canonicalization.
func (e *ExecEvaluator) tokensEqual(dbID string, goldToks []string, predicted string) bool {
	gold := normalizeTokens(goldToks, e.fkMaps[dbID])
	pred := normalizeTokens(strings.Fields(predicted), e.fkMaps[dbID])
	if len(gold) != len(pred) {
		return false
	}
	for i := range gold {
		if gold[i] != pred[i] {
			return false
		}
	}
	return true
}

// normalizeTokens lowercases tokens, drops statement terminators and maps
// qualified column references onto their foreign-key group canonical form.
func normalizeTokens(toks []string, fkMap ForeignKeyMap) []string {
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		tok = strings.ToLower(strings.TrimSuffix(tok, ";"))
		if tok == "" {
			continue
		}
		if fkMap != nil && strings.Contains(tok, ".") {
			if canon, ok := fkMap["__"+tok+"__"]; ok {
				tok = strings.Trim(canon, "_")
			}
		}
		out = append(out, tok)
	}
	return out
}

// execEqual runs both queries and compares their result sets ignoring row
// order. A failing gold query makes the example unscorable and reports an
// error; a failing predicted query is simply wrong.
func (e *ExecEvaluator) execEqual(dbID, gold, predicted string) (bool, error) {
	conn, err := e.conn(dbID)
	if err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(e.timeoutSec)*time.Second)
	defer cancel()

	goldRows, err := fetchRows(ctx, conn, gold)
	if err != nil {
		return false, fmt.Errorf("gold query: %w", err)
	}
	predRows, err := fetchRows(ctx, conn, predicted)
	if err != nil {
		return false, fmt.Errorf("predicted query: %w", err)
	}
	if len(goldRows) != len(predRows) {
		return false, nil
	}
	for i := range goldRows {
		if goldRows[i] != predRows[i] {
			return false, nil
		}
	}
	return true, nil
}

// fetchRows materializes a result set as sorted stringified rows.
func fetchRows(ctx context.Context, conn *sql.DB, query string) ([]string, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []string
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		fields := make([]string, len(cols))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			fields[i] = fmt.Sprint(v)
		}
		out = append(out, strings.Join(fields, "\x1f"))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// IsValidSQL reports whether the database for dbID accepts the query.
func (e *ExecEvaluator) IsValidSQL(query, dbID string) bool {
	conn, err := e.conn(dbID)
	if err != nil {
		logger.Debug("validate %s: %v", dbID, err)
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(e.timeoutSec)*time.Second)
	defer cancel()
	return db.Validate(ctx, e.dbcfg.Type, conn, query) == nil
}

// Finalize computes the aggregate accuracies. Calling it again is a no-op.
func (e *ExecEvaluator) Finalize() {
	if e.finalized {
		return
	}
	if e.scores.Count > 0 {
		e.scores.ExactAccuracy = float64(e.scores.ExactMatches) / float64(e.scores.Count)
		e.scores.ExecAccuracy = float64(e.scores.ExecMatches) / float64(e.scores.Count)
	}
	e.finalized = true
}

// Scores returns the accumulated summary.
func (e *ExecEvaluator) Scores() Scores {
	return e.scores
}

// Close releases all cached database connections.
func (e *ExecEvaluator) Close() error {
	var firstErr error
	for dbID, c := range e.conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", dbID, err)
		}
		delete(e.conns, dbID)
	}
	return firstErr
}
