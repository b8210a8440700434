package postgres

import (
	"Squares/config"
	"Squares/models/postgres"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"go.uber.org/zap"
)

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM(cfg config.PostgresConfig, log *zap.SugaredLogger) (*gorm.DB, error) {
	// NOTE: See https://github.com/go-gorm/gorm/issues/5409
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Errorw("error connecting to PostgreSQL", "error", err)
		return nil, err
	}

	gormConfig := &gorm.Config{}
	if cfg.Verbose {
		gormConfig.Logger = logger.New(
			zap.NewStdLog(log.Desugar()),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Info,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), gormConfig)
	if err != nil {
		log.Errorw("error connecting to PostgreSQL with GORM", "error", err)
		return nil, err
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		log.Errorw("error pinging PostgreSQL", "error", err)
		return nil, err
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Infow("successfully connected to PostgreSQL with GORM", "host", cfg.Host, "database", cfg.Database)
	return db, nil
}

// MigrateDatabase migrates the GORM models to the PostgreSQL database
func MigrateDatabase(db *gorm.DB, log *zap.SugaredLogger) error {
	// NOTE: needs postgres driver v1.4.0, see https://github.com/pilinux/gorest/issues/167#issuecomment-1947114560
	// NOTE: for more info, execute db.Debug().AutoMigrate(...)
	err := db.AutoMigrate(
		postgres.Account{},
		postgres.Game{},
		postgres.GameEntry{},
		postgres.Payout{})
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	log.Info("PostgreSQL database migrated successfully")
	return nil
}
