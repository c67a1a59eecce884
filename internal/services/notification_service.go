// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/config"
	"github.com/tunetrust/tunetrust-backend/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
	mg     mailgun.Mailgun
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, cfg *config.Config) *NotificationService {
	var mg mailgun.Mailgun
	if cfg.Email.MailgunDomain != "" {
		mg = mailgun.NewMailgun(cfg.Email.MailgunDomain, cfg.Email.MailgunAPIKey)
	}
	return &NotificationService{
		db:     db,
		config: cfg,
		mg:     mg,
	}
}

// Authentication notifications
func (s *NotificationService) SendWelcomeEmail(user *models.User, verificationToken string) error {
	template := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Username":        user.Username,
		"VerificationURL": fmt.Sprintf("%s/verify-email?token=%s", s.config.Frontend.BaseURL, verificationToken),
		"PlatformName":    "TuneTrust",
	}

	subject := "Welcome to TuneTrust"
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Rights request notifications
func (s *NotificationService) SendRightsRequestNotification(request *models.RightsRequest) error {
	template := s.getEmailTemplate("rights_request")

	data := map[string]interface{}{
		"RequestorName": request.RequestorName,
		"SongName":      request.SongName,
		"RightType":     string(request.RightType),
		"Offer":         request.Offer,
		"RequestURL":    fmt.Sprintf("%s/requests/%s", s.config.Frontend.BaseURL, request.ID),
	}

	subject := "New Rights Request - " + request.SongName
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	// Every snapshotted rights-holder gets notified.
	for _, email := range request.ArtistEmails {
		if err := s.sendEmail(email, subject, body); err != nil {
			logrus.WithError(err).WithField("email", email).Warn("Failed to notify rights holder")
		}
	}
	return nil
}

func (s *NotificationService) SendRightsConfirmedNotification(request *models.RightsRequest) error {
	template := s.getEmailTemplate("rights_confirmed")

	data := map[string]interface{}{
		"RequestorName": request.RequestorName,
		"SongName":      request.SongName,
		"RightType":     string(request.RightType),
	}

	subject := "Rights Request Confirmed - " + request.SongName
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(request.RequestorEmail, subject, body)
}

func (s *NotificationService) SendRightsRejectedNotification(request *models.RightsRequest) error {
	template := s.getEmailTemplate("rights_rejected")

	data := map[string]interface{}{
		"RequestorName": request.RequestorName,
		"SongName":      request.SongName,
	}

	subject := "Rights Request Rejected - " + request.SongName
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(request.RequestorEmail, subject, body)
}

// License notifications
func (s *NotificationService) SendLicenseIssuedNotification(license *models.License, licensee *models.User, songName string) error {
	template := s.getEmailTemplate("license_issued")

	data := map[string]interface{}{
		"LicenseeName": licensee.Username,
		"SongName":     songName,
		"UsageType":    string(license.UsageType),
		"LicenseURL":   fmt.Sprintf("%s/licenses/%s", s.config.Frontend.BaseURL, license.ID),
	}

	subject := "License Issued - " + songName
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(licensee.Email, subject, body)
}

// Crowdfunding notifications
func (s *NotificationService) SendCampaignFundedNotification(campaign *models.Campaign, owner *models.User) error {
	template := s.getEmailTemplate("campaign_funded")

	data := map[string]interface{}{
		"OwnerName":    owner.Username,
		"Title":        campaign.Title,
		"TargetAmount": campaign.TargetAmount,
	}

	subject := "Campaign Funded - " + campaign.Title
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(owner.Email, subject, body)
}

// Report notifications
func (s *NotificationService) SendReportResolvedNotification(report *models.IssueReport, reporter *models.User) error {
	template := s.getEmailTemplate("report_resolved")

	data := map[string]interface{}{
		"ReporterName": reporter.Username,
		"IssueType":    report.IssueType,
		"AdminNotes":   report.AdminNotes,
	}

	subject := "Issue Report Update"
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(reporter.Email, subject, body)
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.mg == nil {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email delivery skipped (mailgun not configured)")
		return nil
	}

	msg := s.mg.NewMessage(s.config.Email.FromEmail, subject, "", to)
	msg.SetHtml(body)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, _, err := s.mg.Send(ctx, msg)
	return err
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	// In a real implementation, these would be loaded from files or database
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to TuneTrust",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Username}}!</h2>
	<p>Thank you for joining TuneTrust. Please verify your email address by clicking the link below:</p>
	<a href="{{.VerificationURL}}">Verify Email</a>
	<p>Best regards,<br>{{.PlatformName}} Team</p>
</body>
</html>`,
		},
		"rights_request": {
			Subject: "New Rights Request",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New Rights Request</h2>
	<p>{{.RequestorName}} has requested {{.RightType}} rights for "{{.SongName}}" with an offer of {{.Offer}}.</p>
	<p>The request confirms only once every rights holder accepts it.</p>
	<a href="{{.RequestURL}}">Review Request</a>
	<p>Best regards,<br>TuneTrust Team</p>
</body>
</html>`,
		},
		"rights_confirmed": {
			Subject: "Rights Request Confirmed",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Rights Request Confirmed!</h2>
	<p>Hello {{.RequestorName}},</p>
	<p>All rights holders of "{{.SongName}}" have accepted your {{.RightType}} request.</p>
	<p>Best regards,<br>TuneTrust Team</p>
</body>
</html>`,
		},
		"rights_rejected": {
			Subject: "Rights Request Rejected",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Rights Request Rejected</h2>
	<p>Hello {{.RequestorName}},</p>
	<p>Your rights request for "{{.SongName}}" was rejected by a rights holder.</p>
	<p>Best regards,<br>TuneTrust Team</p>
</body>
</html>`,
		},
		// Add more templates as needed...
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
