// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAccessDenied           = "auth.access_denied"

	// Songs
	KeySongCreated     = "song.created"
	KeySongUpdated     = "song.updated"
	KeySongNotFound    = "song.not_found"
	KeySongPlagiarized = "song.plagiarized"
	KeySongPlayed      = "song.played"

	// Rights requests
	KeyRightsRequestCreated   = "rights_request.created"
	KeyRightsRequestAccepted  = "rights_request.accepted"
	KeyRightsRequestRejected  = "rights_request.rejected"
	KeyRightsRequestConfirmed = "rights_request.confirmed"
	KeyRightsRequestNotFound  = "rights_request.not_found"
	KeyRightsRequestDecided   = "rights_request.already_decided"

	// Licenses
	KeyLicenseIssued      = "license.issued"
	KeyLicenseTransferred = "license.transferred"
	KeyLicenseRevoked     = "license.revoked"
	KeyLicenseNotFound    = "license.not_found"
	KeyLicenseExpired     = "license.expired"

	// Crowdfunding
	KeyCampaignCreated   = "campaign.created"
	KeyCampaignNotFound  = "campaign.not_found"
	KeyCampaignFunded    = "campaign.funded"
	KeyCampaignWithdrawn = "campaign.withdrawn"
	KeyContributionMade  = "campaign.contribution_made"

	// Playlists
	KeyPlaylistCreated  = "playlist.created"
	KeyPlaylistNotFound = "playlist.not_found"

	// Reports
	KeyReportSubmitted = "report.submitted"
	KeyReportResolved  = "report.resolved"
	KeyReportNotFound  = "report.not_found"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Rate limiting
	KeyRateLimited = "rate_limit.exceeded"
)
