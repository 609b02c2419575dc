package app

import (
	"fmt"
	"os"
	"path"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/pawsworks/petshop/config"
)

// getDatabase opens the configured database. Postgres is the production
// target; sqlite keeps single-node deployments and development simple.
func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	loglevel := logger.Silent
	if cfg.Debug {
		loglevel = logger.Info
	}

	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         logger.Default.LogMode(loglevel),
	}

	switch cfg.Type {
	case "sqlite":
		dbfile := path.Join(workdir, "data", fmt.Sprintf("%s.db", cfg.Name))
		_ = os.MkdirAll(path.Dir(dbfile), 0o755)
		db, err := gorm.Open(sqlite.Open(dbfile), gormConfig)
		if err != nil {
			zap.S().Panicf("failed to connect sqlite database %s: %v", dbfile, err)
		}
		return db
	default:
		dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Name, cfg.Passwd)
		db, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn}), gormConfig)
		if err != nil {
			zap.S().Panicf("failed to connect postgres database %s: %v", cfg.Name, err)
		}
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.SetMaxOpenConns(cfg.MaxConn)
			sqlDB.SetMaxIdleConns(cfg.IdleConn)
			sqlDB.SetConnMaxLifetime(time.Hour)
		}
		return db
	}
}
