// internal/utils/utils_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	userID := uuid.New()
	token, err := GenerateJWT(userID, "tester", "tester@example.com", "Tester", "artist", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "tester", claims.Username)
	assert.Equal(t, "artist", claims.UserType)
	assert.Equal(t, "tunetrust", claims.Issuer)

	_, err = ValidateJWT("garbage")
	assert.Error(t, err)

	// A token signed under a different secret is rejected.
	SetJWTSecret("rotated-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	userID := uuid.New()
	token, err := GenerateRefreshToken(userID, 24)
	require.NoError(t, err)

	parsed, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), parsed)

	_, err = ValidateRefreshToken("garbage")
	assert.Error(t, err)
}

func TestValidateStructCustomTags(t *testing.T) {
	type form struct {
		Username  string `validate:"required,username"`
		Password  string `validate:"required,strong_password"`
		RightType string `validate:"required,right_type"`
	}

	assert.NoError(t, ValidateStruct(&form{
		Username:  "artist_01",
		Password:  "Sup3rSecret!",
		RightType: "partial",
	}))

	err := ValidateStruct(&form{
		Username:  "x",
		Password:  "password",
		RightType: "exclusive",
	})
	require.Error(t, err)

	fields := make(map[string]string)
	for _, ve := range GetValidationErrors(err) {
		fields[ve.Field] = ve.Tag
	}
	assert.Equal(t, "username", fields["username"])
	assert.Equal(t, "strong_password", fields["password"])
	assert.Equal(t, "right_type", fields["righttype"])
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(32)
	require.NoError(t, err)
	b, err := GenerateRandomString(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestPaginationResultCalculatesTotalPages(t *testing.T) {
	params := PaginationParams{Page: 2, Limit: 10}
	result := CreatePaginationResult([]int{1, 2, 3}, 25, params)

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, int64(25), result.Total)
	assert.Equal(t, 3, result.TotalPages)
}
