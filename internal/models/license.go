// internal/models/license.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type License struct {
	BaseModel
	SongID      uuid.UUID     `json:"song_id" gorm:"type:uuid;not null;index"`
	IssuerID    uuid.UUID     `json:"issuer_id" gorm:"type:uuid;not null;index"`
	LicenseeID  uuid.UUID     `json:"licensee_id" gorm:"type:uuid;not null;index"`
	Price       float64       `json:"price" gorm:"type:decimal(10,2);not null"`
	UsageType   UsageType     `json:"usage_type" gorm:"type:varchar(20);not null"`
	Region      string        `json:"region" gorm:"size:100;default:'global'"`
	IsExclusive bool          `json:"is_exclusive" gorm:"default:false"`
	ExpiresAt   *time.Time    `json:"expires_at"`
	Status      LicenseStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	LedgerHash  string        `json:"ledger_hash,omitempty" gorm:"size:66"`
	Terms       JSONB         `json:"terms" gorm:"type:jsonb"`
	RevokedAt   *time.Time    `json:"revoked_at"`

	// Relationships
	Song     Song `json:"song,omitempty" gorm:"foreignKey:SongID"`
	Issuer   User `json:"issuer,omitempty" gorm:"foreignKey:IssuerID"`
	Licensee User `json:"licensee,omitempty" gorm:"foreignKey:LicenseeID"`
}

// Valid reports whether the license currently grants usage rights.
func (l *License) Valid(now time.Time) bool {
	if l.Status != LicenseStatusActive {
		return false
	}
	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return false
	}
	return true
}
