// internal/models/report.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type IssueReport struct {
	BaseModel
	SongID      uuid.UUID    `json:"song_id" gorm:"type:uuid;not null;index"`
	ReporterID  uuid.UUID    `json:"reporter_id" gorm:"type:uuid;not null;index"`
	IssueType   string       `json:"issue_type" gorm:"size:100;not null"`
	Evidence    string       `json:"evidence" gorm:"size:255"`
	EvidenceURL string       `json:"evidence_url" gorm:"size:512"`
	Status      ReportStatus `json:"status" gorm:"type:varchar(20);default:'under_review';index"`
	AdminNotes  string       `json:"admin_notes,omitempty" gorm:"type:text"`
	ResolvedBy  *uuid.UUID   `json:"resolved_by" gorm:"type:uuid"`
	ResolvedAt  *time.Time   `json:"resolved_at"`

	// Relationships
	Song     Song  `json:"song,omitempty" gorm:"foreignKey:SongID"`
	Reporter User  `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	Resolver *User `json:"resolver,omitempty" gorm:"foreignKey:ResolvedBy"`
}

// IssueTypes is the fixed enumeration offered to reporters.
var IssueTypes = []string{
	"Copyright Violation",
	"Unauthorized Sample",
	"Royalty Dispute",
	"License Violation",
	"Content Claim",
}

func ValidIssueType(t string) bool {
	for _, it := range IssueTypes {
		if it == t {
			return true
		}
	}
	return false
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
