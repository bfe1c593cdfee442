package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Supported engine type tags.
const (
	TypeSQLite     = "sqlite"
	TypePostgreSQL = "postgresql"
	TypeMySQL      = "mysql"
)

// Params holds the connection parameters for one store. DBName is the
// file name (without extension) for sqlite, the database name otherwise.
type Params struct {
	DBName   string `json:"db_name"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
}

// Engine is the capability interface one store engine implements.
// Exactly one implementation exists per supported engine; the engine is
// selected once when a profile is configured, never by string dispatch
// afterwards.
type Engine interface {
	// Type returns the engine tag (sqlite, postgresql, mysql).
	Type() string
	// Dialector builds the GORM dialector for the given parameters.
	// dataDir is the directory file-based engines place their file in.
	Dialector(dataDir string, p Params) (gorm.Dialector, error)
	// Configure tunes the connection pool after opening.
	Configure(sqlDB *sql.DB)
	// ProbeSQL is the engine-specific liveness statement.
	ProbeSQL() string
	// FileBased reports whether the engine stores data in a local file.
	FileBased() bool
}

// EngineFor returns the engine implementation for a type tag.
func EngineFor(dbType string) (Engine, error) {
	switch dbType {
	case TypeSQLite:
		return sqliteEngine{}, nil
	case TypePostgreSQL:
		return postgresEngine{}, nil
	case TypeMySQL:
		return mysqlEngine{}, nil
	}
	return nil, fmt.Errorf("unsupported database type %q", dbType)
}

type sqliteEngine struct{}

func (sqliteEngine) Type() string { return TypeSQLite }

func (sqliteEngine) Dialector(dataDir string, p Params) (gorm.Dialector, error) {
	if p.DBName == "" {
		return nil, fmt.Errorf("sqlite: db_name is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return sqlite.Open(FilePath(dataDir, p)), nil
}

func (sqliteEngine) Configure(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// performance and reliability tuning
	_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
	_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")
	_, _ = sqlDB.Exec("PRAGMA foreign_keys = ON;")
}

func (sqliteEngine) ProbeSQL() string { return "SELECT 1" }
func (sqliteEngine) FileBased() bool  { return true }

// FilePath resolves the sqlite file path for the given parameters.
func FilePath(dataDir string, p Params) string {
	return filepath.Join(dataDir, p.DBName+".db")
}

type postgresEngine struct{}

func (postgresEngine) Type() string { return TypePostgreSQL }

func (postgresEngine) Dialector(_ string, p Params) (gorm.Dialector, error) {
	if p.Host == "" || p.DBName == "" || p.User == "" {
		return nil, fmt.Errorf("postgresql: host, db_name and user are required")
	}
	port := p.Port
	if port == 0 {
		port = 5432
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, port, p.User, p.Password, p.DBName)
	return postgres.Open(dsn), nil
}

func (postgresEngine) Configure(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)
}

func (postgresEngine) ProbeSQL() string { return "SELECT version()" }
func (postgresEngine) FileBased() bool  { return false }

type mysqlEngine struct{}

func (mysqlEngine) Type() string { return TypeMySQL }

func (mysqlEngine) Dialector(_ string, p Params) (gorm.Dialector, error) {
	if p.Host == "" || p.DBName == "" || p.User == "" {
		return nil, fmt.Errorf("mysql: host, db_name and user are required")
	}
	port := p.Port
	if port == 0 {
		port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		p.User, p.Password, p.Host, port, p.DBName)
	return mysql.Open(dsn), nil
}

func (mysqlEngine) Configure(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)
}

func (mysqlEngine) ProbeSQL() string { return "SELECT @@version" }
func (mysqlEngine) FileBased() bool  { return false }
