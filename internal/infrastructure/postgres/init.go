package postgres

import (
	"log"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.SettlementConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.SettlementDB.Dsn), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v\n", err.Error())
	}
	sqlDB.SetMaxOpenConns(cfg.SettlementDB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.SettlementDB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.SettlementDB.ConnMaxLifetime)

	return db
}
