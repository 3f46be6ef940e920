package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/personascape/backend/internal/models"
)

// allModels lists every persisted entity. Keep in sync with the SQL
// migrations; VerifySchema checks the two never drift apart at runtime.
var allModels = []interface{}{
	&models.User{},
	&models.Profile{},
	&models.ProfileLike{},
	&models.ProfileView{},
	&models.Comment{},
	&models.CommentLike{},
}

// RunMigrations brings the schema up to date. SQLite (tests) uses GORM
// auto-migration; PostgreSQL applies the SQL files in migrationsDir,
// tracked in a migrations table.
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	if db.Dialector.Name() == "sqlite" {
		log.Printf("Using GORM auto-migration for SQLite")
		return db.AutoMigrate(allModels...)
	}

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") || strings.HasSuffix(file.Name(), "_rollback.sql") {
			continue
		}

		var count int64
		if err := db.Table("migrations").Where("name = ?", file.Name()).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Printf("Skipping migration %s (already applied)", file.Name())
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		if err := db.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file.Name(), err)
		}

		if err := db.Exec("INSERT INTO migrations (name) VALUES (?)", file.Name()).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", file.Name(), err)
		}

		log.Printf("Applied migration %s", file.Name())
	}

	return VerifySchema(db)
}

// VerifySchema fails loudly when a table is missing instead of letting
// handlers degrade at request time with partial schemas.
func VerifySchema(db *gorm.DB) error {
	var missing []string
	for _, m := range allModels {
		if !db.Migrator().HasTable(m) {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(m); err != nil {
				return err
			}
			missing = append(missing, stmt.Schema.Table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema verification failed, missing tables: %s", strings.Join(missing, ", "))
	}
	return nil
}
