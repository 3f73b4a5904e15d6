package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DatasetConfig selects a registered dataset and points it at its input files.
type DatasetConfig struct {
	Name         string   `yaml:"name" json:"name"`
	TableFiles   []string `yaml:"table_files" json:"table_files"`
	ExampleFiles []string `yaml:"example_files" json:"example_files"`
	Limit        int      `yaml:"limit" json:"limit"` // 0 = no limit
}

// DBConfig describes where the benchmark databases live. For sqlite the
// databases are files under Root (one directory per database id); for server
// backends the database id doubles as the database name.
type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Root     string `yaml:"root" json:"root"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	DSN      string `yaml:"dsn" json:"dsn"` // optional explicit DSN template
}

// EvalConfig controls scoring behavior.
type EvalConfig struct {
	Mode              string `yaml:"mode" json:"mode"`                             // match, exec or all
	BeamNormalization string `yaml:"beam_normalization" json:"beam_normalization"` // underscore or raw
	TimeoutSec        int    `yaml:"timeout_sec" json:"timeout_sec"`
}

type AppConfig struct {
	Dataset    DatasetConfig `yaml:"dataset" json:"dataset"`
	Database   DBConfig      `yaml:"database" json:"database"`
	Evaluation EvalConfig    `yaml:"evaluation" json:"evaluation"`
}

// LoadFile loads YAML config from path.
func LoadFile(path string) (AppConfig, error) {
	var cfg AppConfig
	f, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// NormalizeDriver maps common aliases to canonical driver keys.
func NormalizeDriver(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "postgresql", "pg", "postgres":
		return "postgres"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	case "mssql", "sqlserver":
		return "sqlserver"
	case "godror", "oracle":
		return "godror"
	default:
		return strings.ToLower(d)
	}
}

// BuildDriverAndDSN produces a driver name and DSN for one benchmark database.
// An explicit DSN is used as a template where "{db}" expands to the database id.
func BuildDriverAndDSN(db DBConfig, dbID string) (driver string, dsn string, err error) {
	t := NormalizeDriver(db.Type)

	if db.DSN != "" {
		return t, strings.ReplaceAll(db.DSN, "{db}", dbID), nil
	}

	switch t {
	case "postgres":
		driver = "postgres"
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			db.Username, db.Password, db.Host, db.Port, dbID)
	case "mysql":
		driver = "mysql"
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			db.Username, db.Password, db.Host, db.Port, dbID)
	case "sqlite":
		driver = "sqlite"
		if db.Root == "" {
			return "", "", fmt.Errorf("sqlite needs a database root directory")
		}
		dsn = fmt.Sprintf("file:%s?mode=ro",
			filepath.Join(db.Root, dbID, dbID+".sqlite"))
	case "sqlserver":
		driver = "sqlserver"
		dsn = fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
			db.Username, db.Password, db.Host, db.Port, dbID)
	case "godror":
		driver = "godror"
		dsn = fmt.Sprintf("%s/%s@%s:%d/%s",
			db.Username, db.Password, db.Host, db.Port, dbID)
	default:
		err = fmt.Errorf("unsupported database type: %s", db.Type)
	}
	return
}
