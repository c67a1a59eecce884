// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type stored as a JSON column
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
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// StringList is a list column serialized as JSON text. Unlike text[] it
// round-trips through both Postgres and the SQLite driver used in tests.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	// Store as TEXT, not a byte blob, so containment queries with LIKE
	// work on every driver.
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

func (l StringList) Contains(s string) bool {
	for _, item := range l {
		if item == s {
			return true
		}
	}
	return false
}

// Union appends s if absent and reports whether the list changed.
func (l StringList) Union(s string) (StringList, bool) {
	if l.Contains(s) {
		return l, false
	}
	return append(append(StringList{}, l...), s), true
}

// ContainsAll reports whether every element of other is present.
func (l StringList) ContainsAll(other StringList) bool {
	for _, item := range other {
		if !l.Contains(item) {
			return false
		}
	}
	return true
}

// Enums
type UserType string

const (
	UserTypeArtist   UserType = "artist"
	UserTypeListener UserType = "listener"
	UserTypeAdmin    UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type RightType string

const (
	RightTypeLicensing RightType = "licensing"
	RightTypePartial   RightType = "partial"
	RightTypeFull      RightType = "full"
)

func (t RightType) Valid() bool {
	switch t {
	case RightTypeLicensing, RightTypePartial, RightTypeFull:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusConfirmed RequestStatus = "confirmed"
)

// Terminal reports whether no further transitions are allowed.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusRejected || s == RequestStatusConfirmed
}

type SongStatus string

const (
	SongStatusActive      SongStatus = "active"
	SongStatusUnderReview SongStatus = "under_review"
	SongStatusSuspended   SongStatus = "suspended"
)

type LicenseStatus string

const (
	LicenseStatusActive  LicenseStatus = "active"
	LicenseStatusExpired LicenseStatus = "expired"
	LicenseStatusRevoked LicenseStatus = "revoked"
)

type UsageType string

const (
	UsageTypeStreaming  UsageType = "streaming"
	UsageTypeCommercial UsageType = "commercial"
	UsageTypeSync       UsageType = "sync"
	UsageTypeSampling   UsageType = "sampling"
)

type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusFunded    CampaignStatus = "funded"
	CampaignStatusWithdrawn CampaignStatus = "withdrawn"
	CampaignStatusClosed    CampaignStatus = "closed"
)

type ContributionStatus string

const (
	ContributionStatusPending   ContributionStatus = "pending"
	ContributionStatusCompleted ContributionStatus = "completed"
	ContributionStatusFailed    ContributionStatus = "failed"
)

type ReportStatus string

const (
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusResolved    ReportStatus = "resolved"
	ReportStatusDismissed   ReportStatus = "dismissed"
)
