package Models

import (
	"fmt"
	"log"

	"GroundCheck/Config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the configured database and runs migrations.
func Connect(cfg *Config.Config) error {
	var dialector gorm.Dialector
	switch cfg.DBType {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialector = mysql.Open(dsn)
	default:
		dialector = sqlite.Open(cfg.DBPath)
	}

	connection, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	DB = connection

	return Migrate(DB)
}

// Migrate runs auto-migrations in dependency order.
func Migrate(db *gorm.DB) error {
	// 1. Base tables with no foreign keys
	if err := db.AutoMigrate(
		&User{},
		&Division{},
		&TaskCounter{},
	); err != nil {
		return err
	}

	// 2. Tables referencing the base tables
	if err := db.AutoMigrate(
		&SupervisionUnit{},
		&Task{},
	); err != nil {
		return err
	}

	// 3. Tables referencing tasks
	if err := db.AutoMigrate(
		&PointAttachment{},
		&Signature{},
	); err != nil {
		return err
	}

	log.Println("Database migrated")
	return nil
}
