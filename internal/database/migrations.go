package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds indexes for the hot task query paths.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for the three retrieval paths
		{"tasks", "idx_tasks_project_id_created_at", "project_id, created_at"},
		{"tasks", "idx_tasks_assigned_to_id", "assigned_to_id"},
		{"tasks", "idx_tasks_status", "status"},

		// Ordered assignee list lookups
		{"task_assignments", "idx_task_assignments_user_id", "user_id"},

		// Team membership and invite lookups
		{"users", "idx_users_team_id", "team_id"},
		{"projects", "idx_projects_team_id", "team_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
		`, idx.table, idx.name).Scan(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
