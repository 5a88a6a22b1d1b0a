package model

import (
	"encoding/json"
	"time"
)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ValidRole reports whether r is one of the three chat roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// ChatMessage is one turn entry in a session transcript. Messages are
// append-only; there are no updates.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Sources   string    `gorm:"type:text" json:"-"` // JSON array of citations
	Metadata  string    `gorm:"type:text" json:"-"` // JSON object
	CreatedAt time.Time `json:"created_at"`
}

// SetSources stores v as the JSON sources payload.
func (m *ChatMessage) SetSources(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		m.Sources = "[]"
		return
	}
	m.Sources = string(b)
}

// SetMetadata stores v as the JSON metadata payload.
func (m *ChatMessage) SetMetadata(v map[string]any) {
	b, err := json.Marshal(v)
	if err != nil {
		m.Metadata = "{}"
		return
	}
	m.Metadata = string(b)
}

// MetadataMap returns the parsed metadata; empty map on parse error.
func (m *ChatMessage) MetadataMap() map[string]any {
	out := make(map[string]any)
	if m.Metadata != "" {
		_ = json.Unmarshal([]byte(m.Metadata), &out)
	}
	return out
}
