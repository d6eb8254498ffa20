package repository

import (
	"gorm.io/gorm"

	"github.com/taskforce-app/taskforce-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func orderedAssignments(db *gorm.DB) *gorm.DB {
	return db.Order("task_assignments.position ASC")
}

func orderedNotes(db *gorm.DB) *gorm.DB {
	return db.Order("task_notes.created_at ASC, task_notes.id ASC")
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("task_images.position ASC")
}

// applyPreloads attaches the requested relations, keeping list-valued ones in
// their stored order.
func applyPreloads(query *gorm.DB, preload []string) *gorm.DB {
	for _, p := range preload {
		switch p {
		case "Assignments":
			query = query.Preload("Assignments", orderedAssignments)
		case "Notes":
			query = query.Preload("Notes", orderedNotes)
		case "Images":
			query = query.Preload("Images", orderedImages)
		default:
			query = query.Preload(p)
		}
	}
	return query
}

// Create creates a task together with its ordered assignee rows
func (r *GormTaskRepository) Create(task *models.Task, assigneeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		return createAssignments(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := applyPreloads(r.db, preload)

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ReplaceAssignees replaces the assignee list and the legacy single-assignee
// field atomically.
func (r *GormTaskRepository) ReplaceAssignees(taskID uint64, assigneeIDs []uint64, assignedToID *uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("task_id = ?", taskID).
			Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		if err := createAssignments(tx, taskID, assigneeIDs); err != nil {
			return err
		}

		return tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Update("assigned_to_id", assignedToID).Error
	})
}

// UpdateWithNote saves the task and appends the history note, if any, in one
// transaction. Notes are append-only; existing rows are never touched.
func (r *GormTaskRepository) UpdateWithNote(task *models.Task, note *models.TaskNote) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignments", "Notes", "Images", "Project", "AssignedTo", "CreatedBy", "CompletedBy").
			Save(task).Error; err != nil {
			return err
		}

		if note == nil {
			return nil
		}

		note.TaskID = task.ID
		return tx.Create(note).Error
	})
}

// Delete hard-deletes a task and its dependent rows
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskImage{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.Task{}, id).Error
	})
}

// ListByProjectID lists a project's tasks ordered by creation descending
func (r *GormTaskRepository) ListByProjectID(projectID uint64) ([]models.Task, error) {
	return r.listTasks(r.db.Where("tasks.project_id = ?", projectID))
}

// ListByProjectIDs lists tasks across projects ordered by creation descending
func (r *GormTaskRepository) ListByProjectIDs(projectIDs []uint64) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, nil
	}
	return r.listTasks(r.db.Where("tasks.project_id IN ?", projectIDs))
}

// ListByAssignee lists tasks assigned to the user through either
// representation. The legacy single-assignee field is checked alongside the
// assignment rows so tasks predating the multi-assignee model still match.
func (r *GormTaskRepository) ListByAssignee(userID uint64) ([]models.Task, error) {
	assignmentSubQuery := r.db.Model(&models.TaskAssignment{}).
		Select("1").
		Where("task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ?", userID)

	return r.listTasks(r.db.
		Where("tasks.assigned_to_id = ? OR EXISTS (?)", userID, assignmentSubQuery))
}

func (r *GormTaskRepository) listTasks(query *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	query = applyPreloads(query.Model(&models.Task{}), []string{"Assignments", "Notes", "Images"})

	if err := query.Order("tasks.created_at DESC, tasks.id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func createAssignments(tx *gorm.DB, taskID uint64, assigneeIDs []uint64) error {
	if len(assigneeIDs) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(assigneeIDs))
	for i, userID := range assigneeIDs {
		assignments[i] = models.TaskAssignment{
			TaskID:   taskID,
			UserID:   userID,
			Position: i,
		}
	}

	return tx.Create(&assignments).Error
}
