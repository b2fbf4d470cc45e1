package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes the leaderboard and activity
// queries rely on. Single-column indexes come from the model tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Leaderboards group by user and filter on outcome
		{"submissions", "idx_submissions_user_outcome", "user_id, outcome"},

		// Recent activity pages newest first
		{"submissions", "idx_submissions_submitted_id", "submitted_at, id"},

		// Puzzle statistics
		{"submissions", "idx_submissions_puzzle_outcome", "puzzle_id, outcome"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
