package model

import (
	"encoding/json"
	"time"
)

// Document types accepted on upload.
const (
	DocTypePDF  = "pdf"
	DocTypeDOCX = "docx"
	DocTypeTXT  = "txt"
)

// ValidDocType reports whether t is one of the declared document types.
func ValidDocType(t string) bool {
	return t == DocTypePDF || t == DocTypeDOCX || t == DocTypeTXT
}

// Document is an uploaded legal document. After ingestion its Content is
// replaced with a truncated preview; the full text lives in the chunks.
type Document struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:256;not null" json:"title"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	Content   string    `gorm:"type:longtext" json:"content"`
	Metadata  string    `gorm:"type:text" json:"-"` // JSON object
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MetadataMap returns the parsed metadata; empty map on parse error.
func (d *Document) MetadataMap() map[string]string {
	m := make(map[string]string)
	if d.Metadata != "" {
		_ = json.Unmarshal([]byte(d.Metadata), &m)
	}
	return m
}

// SetMetadata stores the metadata map as JSON.
func (d *Document) SetMetadata(m map[string]string) {
	if len(m) == 0 {
		d.Metadata = "{}"
		return
	}
	b, _ := json.Marshal(m)
	d.Metadata = string(b)
}
