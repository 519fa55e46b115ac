package infrastructure

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jd-generator/config"
	"jd-generator/domain"
)

// Database owns the process-wide connection pool. It is opened once at
// startup and closed once at shutdown; handlers only ever borrow
// context-scoped sessions from it.
type Database struct {
	DB *gorm.DB
}

func NewDatabase(cfg *config.Config, log *zap.Logger) (*Database, error) {
	dsn, err := cfg.DatabaseDSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case config.DriverMySQL:
		dialector = mysql.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DB.Driver)
	}

	logLevel := logger.Warn
	if cfg.IsProduction() {
		logLevel = logger.Silent
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("connected to database and migrated schema", zap.String("driver", cfg.DB.Driver))
	return &Database{DB: db}, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.JobDescription{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
