package models

// Counter is a durable named counter. Identifier allocation increments it with
// a single atomic upsert, never read-then-write.
type Counter struct {
	Name  string `json:"name" gorm:"primaryKey;size:64"`
	Value int64  `json:"value" gorm:"not null;default:0"`
}
