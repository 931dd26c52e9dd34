package db

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/USA-RedDragon/obs-remote/internal/config"
	"github.com/USA-RedDragon/obs-remote/internal/db/models"
	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MakeDB(config *config.Config) (db *gorm.DB, err error) {
	dialector, err := dialectorFor(config.Persistence.Database)
	if err != nil {
		return nil, err
	}
	db, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return db, fmt.Errorf("failed to open database: %w", err)
	}
	if config.HTTP.Tracing.Enabled {
		if err = db.Use(otelgorm.NewPlugin()); err != nil {
			return db, fmt.Errorf("failed to trace database: %w", err)
		}
	}

	err = db.AutoMigrate(
		&models.ControlAction{},
		&models.Screenshot{})
	if err != nil {
		return db, fmt.Errorf("failed to migrate database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return db, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxIdleConns(runtime.GOMAXPROCS(0))
	const connsPerCPU = 10
	sqlDB.SetMaxOpenConns(runtime.GOMAXPROCS(0) * connsPerCPU)
	const maxIdleTime = 10 * time.Minute
	sqlDB.SetConnMaxIdleTime(maxIdleTime)

	return
}

func dialectorFor(database config.Database) (gorm.Dialector, error) {
	switch database.Driver {
	case config.DatabaseDriverSQLite, "":
		separator := "?"
		if strings.Contains(database.Database, "?") {
			separator = "&"
		}
		return sqlite.Open(database.Database + separator + "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"), nil
	case config.DatabaseDriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			database.Username, database.Password, database.Host, database.Port, database.Database)
		if database.ExtraParameters != "" {
			dsn += "&" + database.ExtraParameters
		}
		return mysql.Open(dsn), nil
	case config.DatabaseDriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			database.Host, database.Port, database.Username, database.Password, database.Database)
		if database.ExtraParameters != "" {
			dsn += " " + database.ExtraParameters
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrDatabaseDriverRequired, database.Driver)
	}
}
