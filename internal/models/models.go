package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusPending is the status every new registration starts with.
const StatusPending = "pending"

// Registration is one trial-class booking as stored in trial_registrations.
// ID, Status and CreatedAt are assigned at insert time.
type Registration struct {
	ID           string `gorm:"primaryKey" json:"id,omitempty"`
	FullName     string `gorm:"not null" json:"full_name"`
	Phone        string `gorm:"not null" json:"phone"`
	Age          int    `gorm:"not null" json:"age"`
	ClassDay     string `gorm:"not null" json:"class_day"`
	ClassTime    string `gorm:"not null" json:"class_time"`
	ClassName    string `gorm:"not null" json:"class_name"`
	SpecificDate string `gorm:"not null" json:"specific_date"`
	Status       string `gorm:"not null" json:"status,omitempty"`
	CreatedAt    string `gorm:"column:created_at;autoCreateTime:false" json:"created_at,omitempty"` // YYYY-MM-DD
}

func (Registration) TableName() string { return "trial_registrations" }

// BeforeCreate fills what a managed backend would generate server side.
func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	return nil
}
