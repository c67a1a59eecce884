// internal/models/campaign.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Campaign struct {
	BaseModel
	SongID        uuid.UUID      `json:"song_id" gorm:"type:uuid;not null;index"`
	OwnerID       uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	Title         string         `json:"title" gorm:"size:255;not null"`
	Description   string         `json:"description" gorm:"type:text"`
	TargetAmount  float64        `json:"target_amount" gorm:"type:decimal(12,2);not null"`
	CurrentAmount float64        `json:"current_amount" gorm:"type:decimal(12,2);default:0"`
	Supporters    int64          `json:"supporters" gorm:"default:0"`
	Deadline      *time.Time     `json:"deadline"`
	Status        CampaignStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	WithdrawnAt   *time.Time     `json:"withdrawn_at"`

	// Relationships
	Song          Song           `json:"song,omitempty" gorm:"foreignKey:SongID"`
	Owner         User           `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Contributions []Contribution `json:"contributions,omitempty" gorm:"foreignKey:CampaignID"`
}

// Funded reports whether the target has been reached.
func (c *Campaign) Funded() bool {
	return c.CurrentAmount >= c.TargetAmount
}

type Contribution struct {
	BaseModel
	CampaignID       uuid.UUID          `json:"campaign_id" gorm:"type:uuid;not null;index"`
	ContributorID    uuid.UUID          `json:"contributor_id" gorm:"type:uuid;not null;index"`
	Amount           float64            `json:"amount" gorm:"type:decimal(10,2);not null"`
	PaymentReference string             `json:"payment_reference" gorm:"size:255"`
	Status           ContributionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CompletedAt      *time.Time         `json:"completed_at"`

	// Relationships
	Campaign    Campaign `json:"campaign,omitempty" gorm:"foreignKey:CampaignID"`
	Contributor User     `json:"contributor,omitempty" gorm:"foreignKey:ContributorID"`
}
