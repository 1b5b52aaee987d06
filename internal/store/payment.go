// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"promptforge/internal/models"
)

// paymentColumns lists all columns for payments SELECTs.
const paymentColumns = `id, user_id, gateway, method, amount_cents, currency,
	status, gateway_charge_id, created_at, updated_at`

// PaymentStore handles one-time charge records.
type PaymentStore struct {
	db *sql.DB
}

// NewPaymentStore creates a new PaymentStore with the given database connection.
func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func scanPayment(scanner interface{ Scan(...any) error }) (*models.Payment, error) {
	var p models.Payment
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Gateway, &p.Method, &p.AmountCents, &p.Currency,
		&p.Status, &p.GatewayChargeID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a pending payment when checkout starts.
func (s *PaymentStore) Create(p *models.Payment) (*models.Payment, error) {
	row := s.db.QueryRow(`
		INSERT INTO payments (user_id, gateway, method, amount_cents, currency, status, gateway_charge_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+paymentColumns,
		p.UserID, p.Gateway, p.Method, p.AmountCents, p.Currency, p.Status, p.GatewayChargeID,
	)
	result, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return result, nil
}

// FindByGatewayChargeID looks up a payment by the gateway's charge ID.
func (s *PaymentStore) FindByGatewayChargeID(gateway, chargeID string) (*models.Payment, error) {
	row := s.db.QueryRow(`
		SELECT `+paymentColumns+`
		FROM payments
		WHERE gateway = $1 AND gateway_charge_id = $2
	`, gateway, chargeID)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payment by charge id: %w", err)
	}
	return p, nil
}

// ListByUser returns a user's payments, newest first.
func (s *PaymentStore) ListByUser(userID uuid.UUID) ([]models.Payment, error) {
	rows, err := s.db.Query(`
		SELECT `+paymentColumns+`
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// UpdateStatus transitions a payment after a webhook confirmation.
func (s *PaymentStore) UpdateStatus(id uuid.UUID, status models.PaymentStatus) error {
	_, err := s.db.Exec(`
		UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}
