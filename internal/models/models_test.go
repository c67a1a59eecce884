// internal/models/models_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListUnionGrowsWithoutDuplicates(t *testing.T) {
	list := StringList{}

	list, changed := list.Union("a")
	assert.True(t, changed)

	list, changed = list.Union("b")
	assert.True(t, changed)
	assert.Equal(t, StringList{"a", "b"}, list)

	same, changed := list.Union("a")
	assert.False(t, changed)
	assert.Equal(t, StringList{"a", "b"}, same)
}

func TestStringListUnionDoesNotMutateReceiver(t *testing.T) {
	original := StringList{"a"}
	grown, changed := original.Union("b")

	assert.True(t, changed)
	assert.Equal(t, StringList{"a"}, original)
	assert.Equal(t, StringList{"a", "b"}, grown)
}

func TestStringListContainsAll(t *testing.T) {
	accepted := StringList{"a", "b", "c"}

	assert.True(t, accepted.ContainsAll(StringList{"a", "b"}))
	assert.True(t, accepted.ContainsAll(StringList{}))
	assert.False(t, StringList{"a"}.ContainsAll(accepted))
}

func TestStringListRoundTripsThroughDriver(t *testing.T) {
	value, err := StringList{"x", "y"}.Value()
	require.NoError(t, err)

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, StringList{"x", "y"}, scanned)

	// Values go out as TEXT so SQL string operators (LIKE containment)
	// see them; a nil list still serializes as an empty JSON array.
	text, err := StringList{"x"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, text)

	empty, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}

func TestRequestStatusTerminal(t *testing.T) {
	assert.False(t, RequestStatusPending.Terminal())
	assert.True(t, RequestStatusRejected.Terminal())
	assert.True(t, RequestStatusConfirmed.Terminal())
}

func TestRightTypeValid(t *testing.T) {
	assert.True(t, RightTypeLicensing.Valid())
	assert.True(t, RightTypePartial.Valid())
	assert.True(t, RightTypeFull.Valid())
	assert.False(t, RightType("exclusive").Valid())
	assert.False(t, RightType("").Valid())
}

func TestSongArtistIDsAndAddArtist(t *testing.T) {
	song := &Song{}
	assert.Empty(t, song.ArtistIDs())

	song.AddArtist("user-1", ArtistEntry{Role: "composer", Split: 60, Email: "one@example.com"})
	song.AddArtist("user-2", ArtistEntry{Role: "producer", Split: 40})
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, []string(song.ArtistIDs()))

	// Adding an existing holder overwrites the entry, not the key set.
	song.AddArtist("user-1", ArtistEntry{Role: "licensing", Split: 0})
	assert.Len(t, song.ArtistIDs(), 2)

	entry, ok := song.Artists["user-1"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "licensing", entry["role"])
}

func TestRightsRequestFullyAccepted(t *testing.T) {
	request := &RightsRequest{
		ArtistIDs:       StringList{"a", "b"},
		AcceptedArtists: StringList{"a"},
	}
	assert.False(t, request.FullyAccepted())

	request.AcceptedArtists, _ = request.AcceptedArtists.Union("b")
	assert.True(t, request.FullyAccepted())
}

func TestLicenseValid(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	assert.True(t, (&License{Status: LicenseStatusActive}).Valid(now))
	assert.True(t, (&License{Status: LicenseStatusActive, ExpiresAt: &future}).Valid(now))
	assert.False(t, (&License{Status: LicenseStatusActive, ExpiresAt: &past}).Valid(now))
	assert.False(t, (&License{Status: LicenseStatusRevoked}).Valid(now))
	assert.False(t, (&License{Status: LicenseStatusExpired}).Valid(now))
}

func TestUserPasswordHashing(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("Sup3rSecret!"))

	assert.NotEqual(t, "Sup3rSecret!", user.PasswordHash)
	assert.NoError(t, user.CheckPassword("Sup3rSecret!"))
	assert.Error(t, user.CheckPassword("wrong-password"))
}

func TestCampaignFunded(t *testing.T) {
	campaign := &Campaign{TargetAmount: 1000, CurrentAmount: 999.99}
	assert.False(t, campaign.Funded())

	campaign.CurrentAmount = 1000
	assert.True(t, campaign.Funded())
}

func TestValidIssueType(t *testing.T) {
	for _, issueType := range IssueTypes {
		assert.True(t, ValidIssueType(issueType))
	}
	assert.False(t, ValidIssueType("Sounds Bad"))
	assert.False(t, ValidIssueType(""))
}
