// internal/models/song.go
package models

import (
	"github.com/google/uuid"
)

// Song is a catalog entry. Artists maps rights-holder user IDs to their
// role and royalty split; its key set is the set of identities entitled
// to decide on rights requests.
type Song struct {
	BaseModel
	UploaderID    uuid.UUID  `json:"uploader_id" gorm:"type:uuid;not null;index"`
	SongName      string     `json:"song_name" gorm:"size:255;not null;index"`
	Description   string     `json:"description" gorm:"type:text"`
	Genre         string     `json:"genre" gorm:"size:100;index"`
	Artists       JSONB      `json:"artists" gorm:"type:jsonb"`
	FileURL       string     `json:"file_url" gorm:"size:512"`
	FileKey       string     `json:"file_key" gorm:"size:255"`
	IPFSHash      string     `json:"ipfs_hash,omitempty" gorm:"size:64"`
	LedgerHash    string     `json:"ledger_hash,omitempty" gorm:"size:66"`
	CoverURL      string     `json:"cover_url,omitempty" gorm:"size:512"`
	Duration      int        `json:"duration" gorm:"default:0"` // seconds
	Plays         int64      `json:"plays" gorm:"default:0"`
	TotalPlayTime int64      `json:"total_play_time" gorm:"default:0"` // seconds
	Status        SongStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	Tags          StringList `json:"tags" gorm:"type:text"`

	// Relationships
	Uploader User            `json:"uploader,omitempty" gorm:"foreignKey:UploaderID"`
	Requests []RightsRequest `json:"requests,omitempty" gorm:"foreignKey:SongID"`
	Licenses []License       `json:"licenses,omitempty" gorm:"foreignKey:SongID"`
}

// ArtistEntry is the value stored per rights-holder in Song.Artists.
type ArtistEntry struct {
	Role  string  `json:"role"`
	Split float64 `json:"split"`
	Email string  `json:"email,omitempty"`
}

// ArtistIDs returns the rights-holder ID set of the song.
func (s *Song) ArtistIDs() StringList {
	ids := make(StringList, 0, len(s.Artists))
	for id := range s.Artists {
		ids = append(ids, id)
	}
	return ids
}

// AddArtist inserts or overwrites a rights-holder entry.
func (s *Song) AddArtist(userID string, entry ArtistEntry) {
	if s.Artists == nil {
		s.Artists = make(JSONB)
	}
	s.Artists[userID] = map[string]interface{}{
		"role":  entry.Role,
		"split": entry.Split,
		"email": entry.Email,
	}
}

type Playlist struct {
	BaseModel
	OwnerID uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name    string     `json:"name" gorm:"size:255;not null"`
	SongIDs StringList `json:"song_ids" gorm:"type:text"`

	Owner User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
