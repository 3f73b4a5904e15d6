package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/joho/godotenv"

	_ "sqlbench/internal/db/dialects"

	"sqlbench/internal/dataset"
	"sqlbench/internal/db"
	"sqlbench/internal/logger"
	"sqlbench/internal/metrics"
	"sqlbench/pkg/config"
)

// prediction is one entry of the predictions file: either a single query
// string or a best-first array of beam candidates.
type prediction struct {
	single string
	beam   []string
}

func (p *prediction) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &p.single); err == nil {
		return nil
	}
	return json.Unmarshal(data, &p.beam)
}

func readPredictions(path string) ([]prediction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read predictions: %w", err)
	}
	var preds []prediction
	if err := json.Unmarshal(data, &preds); err != nil {
		return nil, fmt.Errorf("parse predictions %s: %w", path, err)
	}
	return preds, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func main() {
	// .env is optional; real settings come from config and flags
	_ = godotenv.Load()
	closeLog := logger.Setup()
	defer closeLog()

	cfgPath := flag.String("config", "", "path to config YAML")
	tablesFlag := flag.String("tables", "", "comma-separated schema file override")
	examplesFlag := flag.String("examples", "", "comma-separated example file override")
	predsPath := flag.String("predictions", "", "predictions JSON file (array of strings or beams)")
	modeFlag := flag.String("mode", "", "evaluation mode override (match, exec, all)")
	dbType := flag.String("db-type", "", "database backend override (sqlite, postgres, mysql, sqlserver, oracle)")
	dbRoot := flag.String("db-root", "", "sqlite database root override")
	limit := flag.Int("limit", 0, "cap the number of loaded examples")
	outPath := flag.String("out", "", "write the full report JSON here")
	dumpDB := flag.String("dump", "", "dump the built schema of one database id and exit")
	flag.Parse()

	var appCfg config.AppConfig
	if *cfgPath != "" {
		c, err := config.LoadFile(*cfgPath)
		if err != nil {
			logger.Fatal("error reading config file: %v", err)
		}
		appCfg = c
	}

	// CLI overrides
	if appCfg.Dataset.Name == "" {
		appCfg.Dataset.Name = "spider"
	}
	if files := splitList(*tablesFlag); files != nil {
		appCfg.Dataset.TableFiles = files
	}
	if files := splitList(*examplesFlag); files != nil {
		appCfg.Dataset.ExampleFiles = files
	}
	if *limit > 0 {
		appCfg.Dataset.Limit = *limit
	}
	if *modeFlag != "" {
		appCfg.Evaluation.Mode = *modeFlag
	}
	if *dbType != "" {
		appCfg.Database.Type = *dbType
	}
	if *dbRoot != "" {
		appCfg.Database.Root = *dbRoot
	}

	logger.Info("registered dialects: %v", db.RegisteredDialects())
	logger.Info("registered datasets: %v", dataset.RegisteredDatasets())

	ds, err := dataset.New(appCfg.Dataset)
	if err != nil {
		logger.Fatal("load dataset: %v", err)
	}
	spider, ok := ds.(*dataset.Spider)
	if !ok {
		logger.Fatal("dataset %q does not expose schemas", appCfg.Dataset.Name)
	}

	if *dumpDB != "" {
		s, ok := spider.Schemas()[*dumpDB]
		if !ok {
			logger.Fatal("no such database: %s", *dumpDB)
		}
		spew.Dump(s)
		return
	}

	if *predsPath == "" {
		logger.Fatal("no predictions file given (-predictions)")
	}
	preds, err := readPredictions(*predsPath)
	if err != nil {
		logger.Fatal("%v", err)
	}
	if len(preds) != ds.Len() {
		logger.Fatal("predictions count %d does not match example count %d", len(preds), ds.Len())
	}

	agg, err := metrics.New(spider, appCfg.Database, appCfg.Evaluation)
	if err != nil {
		logger.Fatal("build aggregator: %v", err)
	}
	for i := 0; i < ds.Len(); i++ {
		item := ds.Get(i)
		p := preds[i]
		if p.beam != nil {
			if err := agg.RecordBeam(item, p.beam, item.Orig.Question); err != nil {
				logger.Fatal("example %d: %v", i, err)
			}
		} else {
			agg.RecordSingle(item, p.single, item.Orig.Question)
		}
	}

	report := agg.Finalize()

	bold := color.New(color.Bold)
	bold.Printf("run %s: %d examples\n", report.RunID, report.TotalScores.Count)
	fmt.Printf("exact match: %s\n",
		color.GreenString("%d (%.1f%%)", report.TotalScores.ExactMatches, report.TotalScores.ExactAccuracy*100))
	fmt.Printf("exec match:  %s\n",
		color.GreenString("%d (%.1f%%)", report.TotalScores.ExecMatches, report.TotalScores.ExecAccuracy*100))

	if *outPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Fatal("encode report: %v", err)
		}
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			logger.Fatal("write report: %v", err)
		}
		logger.Info("report written to %s", *outPath)
	}
}
