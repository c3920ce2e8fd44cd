package db

import (
	"embed"
	"errors"
	"fmt"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// registers the postgres database driver for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/go-commandes/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Options struct {
	DSN string
	// SQLMigrations runs the embedded golang-migrate files (postgres only)
	// instead of gorm AutoMigrate.
	SQLMigrations bool
	Debug         bool
	Retries       int
}

// Connect opens the audit database and brings its schema up to date.
func Connect(opts Options, log zerolog.Logger) (*gorm.DB, error) {
	dsn := NormalizeDSN(opts.DSN)
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN est vide, vérifiez la configuration de l'environnement")
	}
	logLevel := logger.Silent
	if opts.Debug {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var dialector gorm.Dialector
	if IsPostgres(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	retries := opts.Retries
	if retries < 1 {
		retries = 1
	}
	var db *gorm.DB
	var err error
	for i := 0; i < retries; i++ {
		db, err = gorm.Open(dialector, cfg)
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("retrying DB connection")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Info().Str("dsn", MaskDSN(dsn)).Msg("audit database connected")

	if err := Migrate(db, dsn, opts.SQLMigrations); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema. SQL migrations need a postgres DSN; sqlite
// always goes through AutoMigrate.
func Migrate(db *gorm.DB, dsn string, sqlMigrations bool) error {
	if sqlMigrations && IsPostgres(dsn) {
		if err := runSQLMigrations(ToURLDSN(dsn)); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		return fmt.Errorf("automigrate %T: %w", &models.AuditLog{}, err)
	}
	if !db.Migrator().HasTable(&models.AuditLog{}) {
		return errors.New("missing table after migration: audit_logs")
	}
	return nil
}

func runSQLMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
