// internal/outbox/relay.go
package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/config"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/services"
)

// Relay drains pending outbox events and hands them to the notification
// service. Delivery is at-least-once: an event whose fan-out partially
// failed is retried whole on the next attempt.
type Relay struct {
	db          *gorm.DB
	notifier    *services.NotificationService
	interval    time.Duration
	batchSize   int
	maxAttempts int
}

func NewRelay(db *gorm.DB, notifier *services.NotificationService, cfg config.OutboxConfig) *Relay {
	return &Relay{
		db:          db,
		notifier:    notifier,
		interval:    time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
	}
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Outbox relay stopping")
			return
		case <-t.C:
			r.drainOnce()
		}
	}
}

func (r *Relay) drainOnce() {
	var events []models.OutboxEvent
	err := r.db.
		Where("status = ? AND next_attempt_at <= ?", models.OutboxStatusPending, time.Now()).
		Order("created_at ASC").
		Limit(r.batchSize).
		Find(&events).Error
	if err != nil {
		logrus.WithError(err).Error("Outbox poll failed")
		return
	}

	for i := range events {
		r.deliver(&events[i])
	}
}

func (r *Relay) deliver(event *models.OutboxEvent) {
	err := r.dispatch(event)
	if err == nil {
		if dbErr := r.db.Model(event).Update("status", models.OutboxStatusSent).Error; dbErr != nil {
			logrus.WithError(dbErr).WithField("event_id", event.ID).Error("Failed to mark outbox event sent")
		}
		return
	}

	attempts := event.Attempts + 1
	updates := map[string]interface{}{
		"attempts":   attempts,
		"last_error": err.Error(),
	}
	if attempts >= r.maxAttempts {
		updates["status"] = models.OutboxStatusFailed
		logrus.WithError(err).WithFields(logrus.Fields{
			"event_id":   event.ID,
			"event_type": event.EventType,
		}).Error("Outbox event exhausted retries")
	} else {
		updates["next_attempt_at"] = time.Now().Add(backoff(attempts))
		logrus.WithError(err).WithFields(logrus.Fields{
			"event_id": event.ID,
			"attempt":  attempts,
		}).Warn("Outbox delivery failed, will retry")
	}

	if dbErr := r.db.Model(event).Updates(updates).Error; dbErr != nil {
		logrus.WithError(dbErr).WithField("event_id", event.ID).Error("Failed to update outbox event")
	}
}

func (r *Relay) dispatch(event *models.OutboxEvent) error {
	var order models.Order
	err := r.db.Preload("Items").Preload("Customer").
		First(&order, "id = ?", event.AggregateID).Error
	if err != nil {
		return fmt.Errorf("failed to load order for event: %w", err)
	}

	switch event.EventType {
	case models.EventOrderPlaced:
		return r.fanOutOrderPlaced(&order)
	case models.EventOrderCancelled:
		return r.notifier.SendOrderCancelled(&order)
	default:
		logrus.WithField("event_type", event.EventType).Warn("Unknown outbox event type, dropping")
		return nil
	}
}

func (r *Relay) fanOutOrderPlaced(order *models.Order) error {
	if err := r.notifier.SendOrderConfirmation(order); err != nil {
		return err
	}

	for _, sellerID := range order.SellerIDs() {
		var seller models.User
		if err := r.db.First(&seller, "id = ?", sellerID).Error; err != nil {
			logrus.WithError(err).WithField("seller_id", sellerID).Warn("Seller lookup failed for order notification")
			continue
		}
		if err := r.notifier.SendNewOrderNotificationToSeller(&seller, order); err != nil {
			return err
		}
	}

	return r.notifier.NotifyAdminNewOrder(order)
}

// backoff doubles per attempt starting at 2s, capped at one minute.
func backoff(attempt int) time.Duration {
	d := 2 * time.Second << (attempt - 1)
	if d > time.Minute {
		return time.Minute
	}
	return d
}
