package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// GetProfile returns the saved profile, or nil if none exists yet.
func (s *SQLiteStore) GetProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	const op = "GetProfile"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	var (
		p         models.Profile
		taxesOn   int
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT name, business_type, service_label, address, phone, email, payment_method,
			taxes_enabled, tax_rate1, tax_rate2, tax_label1, tax_label2, tax_number1, tax_number2, updated_at
		FROM profiles WHERE account_id = ?`,
		accountID,
	).Scan(&p.Name, &p.BusinessType, &p.ServiceLabel, &p.Address, &p.Phone, &p.Email, &p.PaymentMethod,
		&taxesOn, &p.TaxRate1, &p.TaxRate2, &p.TaxLabel1, &p.TaxLabel2, &p.TaxNumber1, &p.TaxNumber2, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to get profile: %w", err))
	}

	p.TaxesEnabled = taxesOn != 0
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &p, nil
}

// SaveProfile creates or replaces the account's profile.
func (s *SQLiteStore) SaveProfile(ctx context.Context, accountID string, p *models.Profile) error {
	const op = "SaveProfile"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	p.UpdatedAt = time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (account_id, name, business_type, service_label, address, phone, email, payment_method,
			taxes_enabled, tax_rate1, tax_rate2, tax_label1, tax_label2, tax_number1, tax_number2, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE SET
			name = excluded.name, business_type = excluded.business_type,
			service_label = excluded.service_label, address = excluded.address,
			phone = excluded.phone, email = excluded.email, payment_method = excluded.payment_method,
			taxes_enabled = excluded.taxes_enabled, tax_rate1 = excluded.tax_rate1, tax_rate2 = excluded.tax_rate2,
			tax_label1 = excluded.tax_label1, tax_label2 = excluded.tax_label2,
			tax_number1 = excluded.tax_number1, tax_number2 = excluded.tax_number2,
			updated_at = excluded.updated_at`,
		accountID, p.Name, p.BusinessType, p.ServiceLabel, p.Address, p.Phone, p.Email, p.PaymentMethod,
		boolToInt(p.TaxesEnabled), p.TaxRate1, p.TaxRate2, p.TaxLabel1, p.TaxLabel2, p.TaxNumber1, p.TaxNumber2,
		p.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to save profile: %w", err))
	}
	return nil
}
