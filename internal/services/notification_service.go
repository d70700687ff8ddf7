package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/logger"
	"github.com/atelier-studio/backend/internal/models"
)

// NotificationService pushes a message to every enabled shoutrrr provider
// when a submission is accepted. Delivery failures are logged only; they
// never affect the submitting user.
type NotificationService struct {
	DB *gorm.DB

	// send is swappable for tests.
	send func(url, message string) error
}

// NewNotificationService returns a NotificationService using the provided DB.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db, send: shoutrrr.Send}
}

// SendSubmissionNotice notifies providers subscribed to the given form kind.
func (s *NotificationService) SendSubmissionNotice(kind models.FormKind, name, email string) {
	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Warn("failed to fetch notification providers")
		return
	}

	message := fmt.Sprintf("New %s submission from %s <%s>", kind, name, email)

	for _, p := range providers {
		if kind == models.FormContact && !p.NotifyContact {
			continue
		}
		if kind == models.FormEducation && !p.NotifyEducation {
			continue
		}
		if err := s.send(p.URL, message); err != nil {
			logger.WithFields(map[string]interface{}{"provider": p.Name}).
				WithError(err).Warn("notification delivery failed")
		}
	}
}

// List returns all configured providers.
func (s *NotificationService) List() ([]models.NotificationProvider, error) {
	var providers []models.NotificationProvider
	if err := s.DB.Order("created_at desc").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

// Create stores a provider.
func (s *NotificationService) Create(p *models.NotificationProvider) error {
	return s.DB.Create(p).Error
}

// Delete removes a provider by id.
func (s *NotificationService) Delete(id string) error {
	return s.DB.Delete(&models.NotificationProvider{}, "id = ?", id).Error
}
