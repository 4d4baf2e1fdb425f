package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapio"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Dialector picks the GORM dialector for driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported db driver %q", driver)
}

func OpenGorm(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	dial, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := OpenGormWithDialector(dial, gormLogger(log))
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// sqlite has no row locks; one connection serialises writers
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	log.Info("gorm: connected", zap.String("driver", driver))
	return db, nil
}

// OpenGormWithDialector opens, sizes the pool and pings. A nil lg keeps
// gorm's default logger at Warn.
func OpenGormWithDialector(dial gorm.Dialector, lg ...logger.Interface) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
	if len(lg) > 0 && lg[0] != nil {
		cfg.Logger = lg[0]
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func gormLogger(log *zap.Logger) logger.Interface {
	w := &zapio.Writer{Log: log.Named("gorm"), Level: zap.WarnLevel}
	return logger.New(writer{w}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

type writer struct{ w *zapio.Writer }

func (x writer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(x.w, format+"\n", args...)
}
