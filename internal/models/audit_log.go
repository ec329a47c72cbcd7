package models

// AuditLog records user write operations on ledger and planning data.
type AuditLog struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"userId"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resourceType"`
	ResourceID   string `json:"resourceId"`
	IPAddress    string `json:"ipAddress"`
	Changes      string `json:"changes,omitempty"`
}
