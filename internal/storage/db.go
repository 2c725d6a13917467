package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var (
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
	ErrNotFound          = errors.New("not found")
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Drivers lists the accepted driver names.
func Drivers() []string { return []string{DriverSQLite, DriverPostgres, DriverMySQL} }

// DB wraps the bench database connection.
type DB struct {
	conn    *sql.DB
	driver  string
	dataDir string
}

// Open connects to the bench database and migrates it. For sqlite an empty
// dsn means benchboard.db inside dataDir.
func Open(driver, dsn, dataDir string) (*DB, error) {
	var err error
	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		if dsn, err = sqliteDSN(dsn, dataDir); err != nil {
			return nil, err
		}
	case DriverPostgres:
	case DriverMySQL:
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// SQLite only supports one writer
		conn.SetMaxOpenConns(1)
	}

	db := &DB{conn: conn, driver: driver, dataDir: dataDir}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func sqliteDSN(dsn, dataDir string) (string, error) {
	if dsn == "" {
		if dataDir == "" {
			return "", errors.New("sqlite: either dsn or data dir is required")
		}
		dsn = filepath.Join(dataDir, "benchboard.db")
	}
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return "", fmt.Errorf("create db directory: %w", err)
		}
	}
	return dsn + "?_journal_mode=WAL&_busy_timeout=5000", nil
}

// mysqlDSN turns on time parsing, which the timestamp columns rely on.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func (db *DB) Close() error { return db.conn.Close() }

func (db *DB) Driver() string { return db.driver }

func (db *DB) DataDir() string { return db.dataDir }

func (db *DB) Conn() *sql.DB { return db.conn }

// rebind rewrites ? placeholders for drivers that number them.
func (db *DB) rebind(q string) string {
	if db.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) timeType() string {
	switch db.driver {
	case DriverPostgres:
		return "TIMESTAMP"
	case DriverMySQL:
		return "DATETIME(6)"
	}
	return "DATETIME"
}

func (db *DB) migrate() error {
	ts := db.timeType()
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS benches (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			id VARCHAR(64) PRIMARY KEY,
			bench_id VARCHAR(64) NOT NULL REFERENCES benches(id),
			kind VARCHAR(32) NOT NULL,
			x INTEGER NOT NULL DEFAULT 0,
			y INTEGER NOT NULL DEFAULT 0,
			persistent BOOLEAN NOT NULL DEFAULT FALSE,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_bench ON blocks(bench_id)`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			name VARCHAR(64) PRIMARY KEY,
			value VARCHAR(255) NOT NULL
		)`,
	}

	for _, m := range migrations {
		if db.driver == DriverMySQL {
			m = strings.Replace(m, "INDEX IF NOT EXISTS", "INDEX", 1)
		}
		if _, err := db.conn.Exec(m); err != nil {
			// MySQL has no IF NOT EXISTS for indexes
			if db.driver == DriverMySQL && strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return fmt.Errorf("migration failed: %s: %w", firstLine(m), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
