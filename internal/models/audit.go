package models

import "time"

// Audit logging of every mutation sent to the backend.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RequestID  string    `gorm:"size:64" json:"request_id,omitempty"`
	EntityType string    `gorm:"size:50;index" json:"entity_type"` // ex: "commande", "livraison"
	EntityID   int64     `gorm:"index" json:"entity_id"`
	Action     string    `gorm:"size:50" json:"action"` // create, update, delete, statut...
	Field      string    `gorm:"size:100" json:"field,omitempty"`
	OldValue   string    `gorm:"size:255" json:"old_value,omitempty"`
	NewValue   string    `gorm:"size:255" json:"new_value,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
