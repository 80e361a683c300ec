package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config for database connection
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the SQLite DSN (file path or URI) used when Driver is sqlite3.
	Path  string
	Debug bool
}

// DB wraps the sqlx handle together with the ent dialect used to build queries.
type DB struct {
	*sqlx.DB
	dialect string
	debug   bool
}

// Dialect returns the ent dialect name for query building.
func (db *DB) Dialect() string {
	return db.dialect
}

// EntDriver returns an ent driver sharing the same connection pool.
func (db *DB) EntDriver() dialect.Driver {
	drv := entsql.OpenDB(db.dialect, db.DB.DB)
	if db.debug {
		return dialect.Debug(drv)
	}
	return drv
}

// Open connects to the configured database and verifies the connection
func Open(cfg Config) (*DB, error) {
	var (
		driverName  string
		dsn         string
		dialectName string
	)

	switch cfg.Driver {
	case "", DriverPostgres:
		driverName, dialectName = DriverPostgres, dialect.Postgres
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		)
	case DriverSQLite:
		driverName, dialectName = DriverSQLite, dialect.SQLite
		dsn = cfg.Path
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool. SQLite keeps the driver defaults so idle
	// connections hold shared in-memory databases open.
	if dialectName == dialect.Postgres {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Printf("[INFO] Connected to %s", driverName)
	return &DB{DB: db, dialect: dialectName, debug: cfg.Debug}, nil
}
