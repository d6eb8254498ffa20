package models

// TaskImage references an uploaded attachment by its opaque object-store key.
// Keys are resolved to time-limited download URLs at read time.
type TaskImage struct {
	ID         uint64 `gorm:"primarykey" json:"id"`
	TaskID     uint64 `gorm:"not null;index" json:"task_id"`
	StorageKey string `gorm:"type:varchar(255);not null" json:"storage_key"`
	Position   int    `gorm:"not null" json:"position"`
}
