package database

import (
	"fmt"
	"os"

	"github.com/blackeyes972/budget-familiare/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Manager binds one (engine, params) pair to a live connection. Opening
// a manager also ensures the full schema exists, so every consumer can
// assume the tables are there immediately after construction.
type Manager struct {
	engine  Engine
	params  Params
	dataDir string
	logMode bool
	db      *gorm.DB
}

// Open connects to the store described by dbType/params and ensures the
// schema. dataDir is where file-based engines keep their files.
func Open(dbType string, params Params, dataDir string, logMode bool) (*Manager, error) {
	engine, err := EngineFor(dbType)
	if err != nil {
		return nil, err
	}

	dialector, err := engine.Dialector(dataDir, params)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Default
	if !logMode {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dbType, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	engine.Configure(sqlDB)

	if err := db.Exec(engine.ProbeSQL()).Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("probe %s database: %w", dbType, err)
	}

	m := &Manager{engine: engine, params: params, dataDir: dataDir, logMode: logMode, db: db}
	if err := AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return m, nil
}

// TestConnection opens a throwaway connection, runs the engine's probe
// statement and closes it again. Nothing is migrated or written.
func TestConnection(dbType string, params Params, dataDir string) error {
	engine, err := EngineFor(dbType)
	if err != nil {
		return err
	}
	dialector, err := engine.Dialector(dataDir, params)
	if err != nil {
		return err
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	defer sqlDB.Close()

	if err := db.Exec(engine.ProbeSQL()).Error; err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	return nil
}

// AutoMigrate creates or updates the schema for all models. It is
// idempotent; existing tables are left alone.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.Goal{},
		&models.RecurringTransaction{},
		&models.Account{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Session returns a fresh scoped session for one unit of work.
func (m *Manager) Session() *gorm.DB {
	return m.db.Session(&gorm.Session{})
}

// DB exposes the underlying handle for consumers that compose queries.
func (m *Manager) DB() *gorm.DB { return m.db }

// Type returns the engine type tag.
func (m *Manager) Type() string { return m.engine.Type() }

// Params returns the connection parameters the manager was opened with.
func (m *Manager) Params() Params { return m.params }

// FileBased reports whether the store lives in a local file.
func (m *Manager) FileBased() bool { return m.engine.FileBased() }

// FilePath returns the store file path for file-based engines, "" otherwise.
func (m *Manager) FilePath() string {
	if !m.engine.FileBased() {
		return ""
	}
	return FilePath(m.dataDir, m.params)
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CheckSchema probes for the newest tables (budgets and goals). An
// error means the store was created by an older release and its schema
// must be repaired before use.
func (m *Manager) CheckSchema() error {
	var n int64
	if err := m.Session().Model(&models.Budget{}).Count(&n).Error; err != nil {
		return fmt.Errorf("budgets table: %w", err)
	}
	if err := m.Session().Model(&models.Goal{}).Count(&n).Error; err != nil {
		return fmt.Errorf("goals table: %w", err)
	}
	return nil
}

// RepairSchema rebuilds an outdated schema in place: export what is
// there, drop everything, recreate, reimport. Only file-based stores
// are repaired automatically; for networked stores this is a manual
// operation and the caller gets an error.
func (m *Manager) RepairSchema() error {
	if !m.engine.FileBased() {
		return fmt.Errorf("schema of %s store %q is outdated; automatic repair is only supported for file-based stores, manual migration required",
			m.Type(), m.params.DBName)
	}

	data, err := m.ExportAll()
	if err != nil {
		// Nothing readable to save; rebuild from scratch.
		data = nil
	}

	if err := m.dropAllTables(); err != nil {
		return err
	}
	if err := AutoMigrate(m.db); err != nil {
		return err
	}

	if data != nil && (len(data.Categories) > 0 || len(data.Transactions) > 0) {
		if _, err := m.Import(data); err != nil {
			return fmt.Errorf("reimport after repair: %w", err)
		}
	}
	return nil
}

// Reset drops and recreates the whole schema, losing all data.
func (m *Manager) Reset() error {
	if err := m.dropAllTables(); err != nil {
		return err
	}
	return AutoMigrate(m.db)
}

func (m *Manager) dropAllTables() error {
	tables := []interface{}{
		&models.Transaction{},
		&models.Budget{},
		&models.RecurringTransaction{},
		&models.Category{},
		&models.Goal{},
		&models.Account{},
	}
	if err := m.db.Migrator().DropTable(tables...); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

// Info describes the current store for diagnostics.
type Info struct {
	Type          string `json:"type"`
	DBName        string `json:"db_name"`
	Transactions  int64  `json:"transactions"`
	Categories    int64  `json:"categories"`
	Budgets       int64  `json:"budgets"`
	Goals         int64  `json:"goals"`
	FilePath      string `json:"file_path,omitempty"`
	FileSizeBytes int64  `json:"file_size_bytes,omitempty"`
}

// Info collects row counts and, for file-based stores, file stats.
func (m *Manager) Info() (Info, error) {
	info := Info{Type: m.Type(), DBName: m.params.DBName}

	session := m.Session()
	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.Transaction{}, &info.Transactions},
		{&models.Category{}, &info.Categories},
		{&models.Budget{}, &info.Budgets},
		{&models.Goal{}, &info.Goals},
	}
	for _, c := range counts {
		if err := session.Model(c.model).Count(c.dst).Error; err != nil {
			return info, fmt.Errorf("count rows: %w", err)
		}
	}

	if path := m.FilePath(); path != "" {
		info.FilePath = path
		if st, err := os.Stat(path); err == nil {
			info.FileSizeBytes = st.Size()
		}
	}
	return info, nil
}
