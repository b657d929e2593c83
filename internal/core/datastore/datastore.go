package datastore

import (
	"fmt"

	"github.com/frahmantamala/crm-management/internal"
	customerDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/customer"
	roleDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/user"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store bundles the two handles over one connection pool: gorm for the
// resource repositories and sqlx for the token store.
type Store struct {
	Gorm *gorm.DB
	SQL  *sqlx.DB
}

func (s *Store) Close() error {
	return s.SQL.Close()
}

func Open(cfg internal.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case internal.DriverSQLite:
		return OpenSQLite(cfg.Source)
	default:
		return OpenPostgres(cfg)
	}
}

func OpenPostgres(cfg internal.DatabaseConfig) (*Store, error) {
	const driver = "pgx"

	sqlDB, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB.DB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Store{Gorm: gormDB, SQL: sqlDB}, nil
}

// OpenSQLite opens a sqlite database. In-memory sources are pinned to a
// single connection so every query sees the same database.
func OpenSQLite(source string) (*Store, error) {
	gormDB, err := gorm.Open(sqlite.Open(source), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gormDB.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	return &Store{Gorm: gormDB, SQL: sqlx.NewDb(sqlDB, "sqlite3")}, nil
}

// Migrate creates the schema from the gorm models. Postgres deployments use
// the goose migrations instead; this serves sqlite and tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&roleDatamodel.Permission{},
		&roleDatamodel.Role{},
		&userDatamodel.User{},
		&userDatamodel.AccessToken{},
		&roleDatamodel.UserRole{},
		&roleDatamodel.RolePermission{},
		&customerDatamodel.Customer{},
	)
}
