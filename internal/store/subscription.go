// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"promptforge/internal/models"
)

// subscriptionColumns lists all columns for subscriptions SELECTs.
const subscriptionColumns = `id, user_id, gateway, gateway_customer_id, gateway_subscription_id,
	tier, status, current_period_end, created_at, updated_at`

// SubscriptionStore handles subscription records written during checkout
// and updated by gateway webhooks.
type SubscriptionStore struct {
	db *sql.DB
}

// NewSubscriptionStore creates a new SubscriptionStore with the given
// database connection.
func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func scanSubscription(scanner interface{ Scan(...any) error }) (*models.Subscription, error) {
	var sub models.Subscription
	err := scanner.Scan(
		&sub.ID, &sub.UserID, &sub.Gateway, &sub.GatewayCustomerID, &sub.GatewaySubID,
		&sub.Tier, &sub.Status, &sub.CurrentPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create inserts a new subscription record, usually in pending status.
func (s *SubscriptionStore) Create(sub *models.Subscription) (*models.Subscription, error) {
	row := s.db.QueryRow(`
		INSERT INTO subscriptions (user_id, gateway, gateway_customer_id, gateway_subscription_id, tier, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+subscriptionColumns,
		sub.UserID, sub.Gateway, sub.GatewayCustomerID, sub.GatewaySubID, sub.Tier, sub.Status,
	)
	result, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return result, nil
}

// FindActiveByUser returns the user's active subscription. Returns nil if
// the user is on the free tier.
func (s *SubscriptionStore) FindActiveByUser(userID uuid.UUID) (*models.Subscription, error) {
	row := s.db.QueryRow(`
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, models.SubscriptionActive)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active subscription: %w", err)
	}
	return sub, nil
}

// FindByGatewayID looks up a subscription by the gateway's own identifier.
// Webhooks carry the gateway ID, not ours.
func (s *SubscriptionStore) FindByGatewayID(gateway, gatewaySubID string) (*models.Subscription, error) {
	row := s.db.QueryRow(`
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE gateway = $1 AND gateway_subscription_id = $2
	`, gateway, gatewaySubID)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription by gateway id: %w", err)
	}
	return sub, nil
}

// UpdateStatus transitions a subscription and optionally extends its
// current period end.
func (s *SubscriptionStore) UpdateStatus(id uuid.UUID, status models.SubscriptionStatus, periodEnd *time.Time) error {
	_, err := s.db.Exec(`
		UPDATE subscriptions SET
			status = $1, current_period_end = COALESCE($2, current_period_end), updated_at = NOW()
		WHERE id = $3
	`, status, periodEnd, id)
	if err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}
	return nil
}
