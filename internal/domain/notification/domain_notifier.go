package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DomainNotifier provides a generic way for domains to create
// notifications. Delivery is fire-and-forget: the engine calls it after a
// state transition commits and never fails the transition on a delivery
// error.
type DomainNotifier interface {
	// NotifyVolunteer sends a notification to a specific volunteer
	NotifyVolunteer(ctx context.Context, volunteerID uuid.UUID, notificationType Type, title, content string, data map[string]string, reference string, referenceID uuid.UUID) error
}

type domainNotifierImpl struct {
	repo   Repository
	logger *logrus.Logger
}

// NewDomainNotifier creates a new domain notifier
func NewDomainNotifier(repo Repository, logger *logrus.Logger) DomainNotifier {
	return &domainNotifierImpl{
		repo:   repo,
		logger: logger,
	}
}

// NotifyVolunteer sends a notification to a specific volunteer
func (n *domainNotifierImpl) NotifyVolunteer(ctx context.Context, volunteerID uuid.UUID, notificationType Type, title, content string, data map[string]string, reference string, referenceID uuid.UUID) error {
	notification := &Notification{
		ID:          uuid.New(),
		VolunteerID: volunteerID,
		Type:        notificationType,
		Title:       title,
		Content:     content,
		Status:      Unread,
		Data:        data,
		Reference:   reference,
		ReferenceID: referenceID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := n.repo.Create(ctx, notification); err != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{
			"volunteer_id": volunteerID,
			"type":         notificationType,
		}).Error("Failed to create notification")
		return err
	}

	return nil
}
