package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type EventStatus string

const (
	EventStatusSuccess EventStatus = "success"
	EventStatusFailed  EventStatus = "failed"
	EventStatusSkipped EventStatus = "skipped"
)

// ==================== JSONB TYPES ====================

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan JSONB: invalid type")
	}
	return json.Unmarshal(bytes, j)
}

// ==================== ENTITIES ====================

// User is the contact record the reminder scan resolves task owners against.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email string `gorm:"size:255;not null" json:"email"`
	Name  string `gorm:"size:255" json:"name,omitempty"`
}

type TimelineEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Type         string      `gorm:"size:100;not null;index" json:"type"`
	Status       EventStatus `gorm:"size:20;not null;default:'success';index" json:"status"`
	Message      string      `gorm:"type:text" json:"message"`
	Meta         JSONB       `gorm:"type:jsonb" json:"meta,omitempty"`
	OwnerID      string      `gorm:"size:64;index" json:"owner_id,omitempty"`
	ResourceID   string      `gorm:"size:64;index" json:"resource_id,omitempty"`
	ResourceType string      `gorm:"size:100;index" json:"resource_type"`
}
