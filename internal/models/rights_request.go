// internal/models/rights_request.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RightsRequest asks the current rights-holders of a song to transfer or
// license rights to the requestor. ArtistIDs and ArtistEmails are a
// snapshot of the song's holder set taken at creation time and are never
// refreshed; the request is evaluated against that snapshot for its
// whole lifetime. AcceptedArtists is always a subset of ArtistIDs, and
// the request confirms only when the two sets are equal.
type RightsRequest struct {
	BaseModel
	SongID          uuid.UUID     `json:"song_id" gorm:"type:uuid;not null;index"`
	SongName        string        `json:"song_name" gorm:"size:255;not null"`
	RequestorID     uuid.UUID     `json:"requestor_id" gorm:"type:uuid;not null;index"`
	RequestorEmail  string        `json:"requestor_email" gorm:"size:255;not null"`
	RequestorName   string        `json:"requestor_name" gorm:"size:100"`
	RightType       RightType     `json:"right_type" gorm:"type:varchar(20);not null"`
	Offer           float64       `json:"offer" gorm:"type:decimal(10,2);default:0"`
	Details         string        `json:"details" gorm:"type:text"`
	ArtistIDs       StringList    `json:"artist_ids" gorm:"type:text"`
	ArtistEmails    StringList    `json:"artist_emails" gorm:"type:text;index"`
	AcceptedArtists StringList    `json:"accepted_artists" gorm:"type:text"`
	Status          RequestStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ActionBy        *uuid.UUID    `json:"action_by" gorm:"type:uuid"`
	ActionAt        *time.Time    `json:"action_at"`
	LedgerHash      string        `json:"ledger_hash,omitempty" gorm:"size:66"`

	// Version guards the read-modify-write cycle on AcceptedArtists so
	// interleaved accepts from different holders cannot lose an update.
	Version int64 `json:"-" gorm:"not null;default:0"`

	// Relationships
	Song      Song `json:"song,omitempty" gorm:"foreignKey:SongID"`
	Requestor User `json:"requestor,omitempty" gorm:"foreignKey:RequestorID"`
}

// FullyAccepted reports whether every snapshotted rights-holder has accepted.
func (r *RightsRequest) FullyAccepted() bool {
	return r.AcceptedArtists.ContainsAll(r.ArtistIDs)
}
