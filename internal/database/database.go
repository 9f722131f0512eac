package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// ErrNotFound is returned by repositories when a record does not exist.
// Callers must check it before dereferencing relations.
var ErrNotFound = errors.New("record not found")

type Database struct {
	DB *gorm.DB
}

// New opens the configured database, registers the explicit join model for
// the book/category relation and migrates all entities. Users migrate first
// since every other table references them.
func New(cfg config.Database) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// sqlite allows a single writer; a larger pool just trades lock errors
	// for waiting.
	if cfg.Driver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.SetupJoinTable(&entities.Book{}, "Categories", &entities.BookCategory{}); err != nil {
		return nil, fmt.Errorf("failed to set up join table: %w", err)
	}
	if err := db.SetupJoinTable(&entities.Category{}, "Books", &entities.BookCategory{}); err != nil {
		return nil, fmt.Errorf("failed to set up join table: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Category{},
		&entities.Token{},
		&entities.BookCategory{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized (%s)", cfg.Driver)

	return &Database{DB: db}, nil
}

func openDialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedAdmin creates the bootstrap administrator account if no user with the
// given username exists yet. The password hash is produced by the caller so
// this package stays free of crypto concerns.
func (d *Database) SeedAdmin(username, name, passwordHash string) error {
	var existing entities.User
	err := d.DB.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	user := &entities.User{
		Name:         name,
		Username:     username,
		PasswordHash: passwordHash,
	}
	if err := d.DB.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Printf("Created bootstrap user %q", username)
	return nil
}
