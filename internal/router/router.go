// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/config"
	"github.com/tunetrust/tunetrust-backend/internal/handlers"
	"github.com/tunetrust/tunetrust-backend/internal/middleware"
	"github.com/tunetrust/tunetrust-backend/internal/services"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	ledgerService := services.NewLedgerService(db, cfg)
	plagiarismService := services.NewPlagiarismService(cfg)

	authService := services.NewAuthService(db, cfg, notificationService)
	songService := services.NewSongService(db, cfg, storageService, plagiarismService, ledgerService)
	rightsService := services.NewRightsService(db, notificationService, ledgerService)
	licenseService := services.NewLicenseService(db, notificationService, ledgerService)
	crowdfundingService := services.NewCrowdfundingService(db, cfg, notificationService)
	streamingService := services.NewStreamingService(db)
	analyticsService := services.NewAnalyticsService(db)
	reportService := services.NewReportService(db, storageService, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	songHandler := handlers.NewSongHandler(songService)
	rightsHandler := handlers.NewRightsHandler(rightsService)
	licenseHandler := handlers.NewLicenseHandler(licenseService)
	crowdfundingHandler := handlers.NewCrowdfundingHandler(crowdfundingService)
	streamingHandler := handlers.NewStreamingHandler(streamingService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.POST("/verify-email", authHandler.VerifyEmail)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Song catalog routes
		songs := v1.Group("/songs")
		{
			songs.GET("", middleware.OptionalAuth(), songHandler.ListSongs)
			songs.GET("/:id", middleware.OptionalAuth(), songHandler.GetSong)
			songs.POST("/:id/play", streamingHandler.RecordPlay)

			protected := songs.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.ArtistRequired(), middleware.UploadRateLimit(), songHandler.CreateSong)
				protected.PUT("/:id", songHandler.UpdateSong)
				protected.DELETE("/:id", songHandler.DeleteSong)
			}
		}

		// Rights request routes
		rights := v1.Group("/rights-requests")
		rights.Use(middleware.AuthRequired())
		{
			rights.POST("", rightsHandler.CreateRightsRequest)
			rights.GET("", rightsHandler.ListRightsRequests)
			rights.GET("/:id", rightsHandler.GetRightsRequest)
			rights.POST("/:id/decision", rightsHandler.DecideRightsRequest)
		}

		// License routes
		licenses := v1.Group("/licenses")
		{
			licenses.GET("/:id/verify", licenseHandler.VerifyLicense)

			protected := licenses.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", licenseHandler.IssueLicense)
				protected.GET("", licenseHandler.ListLicenses)
				protected.GET("/:id", licenseHandler.GetLicense)
				protected.POST("/:id/transfer", licenseHandler.TransferLicense)
				protected.POST("/:id/revoke", licenseHandler.RevokeLicense)
			}
		}

		// Crowdfunding routes
		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", crowdfundingHandler.ListCampaigns)
			campaigns.GET("/:id", crowdfundingHandler.GetCampaign)

			protected := campaigns.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.ArtistRequired(), crowdfundingHandler.CreateCampaign)
				protected.POST("/:id/contribute", crowdfundingHandler.Contribute)
				protected.POST("/:id/withdraw", crowdfundingHandler.Withdraw)
			}
		}
		v1.POST("/contributions/:id/confirm", middleware.AuthRequired(), crowdfundingHandler.ConfirmContribution)

		// Playlist routes
		playlists := v1.Group("/playlists")
		playlists.Use(middleware.AuthRequired())
		{
			playlists.POST("", streamingHandler.CreatePlaylist)
			playlists.GET("", streamingHandler.ListPlaylists)
			playlists.GET("/:id", streamingHandler.GetPlaylist)
			playlists.POST("/:id/songs/:song_id", streamingHandler.AddToPlaylist)
			playlists.DELETE("/:id", streamingHandler.DeletePlaylist)
		}

		// Analytics routes
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/songs/:id", analyticsHandler.GetSongAnalytics)
			analytics.GET("/me", middleware.AuthRequired(), analyticsHandler.GetMyAnalytics)
			analytics.GET("/platform", middleware.AuthRequired(), middleware.AdminRequired(), analyticsHandler.GetPlatformStats)
		}

		// Issue report routes
		reports := v1.Group("/reports")
		{
			reports.GET("/issue-types", reportHandler.GetIssueTypes)

			protected := reports.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.UploadRateLimit(), reportHandler.CreateReport)
				protected.GET("", reportHandler.ListReports)
				protected.GET("/:id", reportHandler.GetReport)
				protected.POST("/:id/resolve", middleware.AdminRequired(), reportHandler.ResolveReport)
			}
		}
	}

	return r
}
