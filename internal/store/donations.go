// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/google/uuid"
)

const donationColumns = `id, name, email, amount, type, status, transaction_id, created_at`

func scanDonation(s rowScanner) (Donation, error) {
	var d Donation
	err := s.Scan(
		&d.ID,
		&d.Name,
		&d.Email,
		&d.Amount,
		&d.Type,
		&d.Status,
		&d.TransactionID,
		&d.CreatedAt,
	)
	return d, err
}

type CreateDonationParams struct {
	Name          string
	Email         string
	Amount        int64
	Type          string
	Status        string
	TransactionID string
}

const createDonation = `INSERT INTO donations (` + donationColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateDonation(ctx context.Context, arg CreateDonationParams) (Donation, error) {
	id := uuid.NewString()
	_, err := q.db.ExecContext(ctx, createDonation,
		id,
		arg.Name,
		arg.Email,
		arg.Amount,
		arg.Type,
		arg.Status,
		arg.TransactionID,
		q.now(),
	)
	if err != nil {
		return Donation{}, err
	}
	return q.GetDonation(ctx, id)
}

const getDonation = `SELECT ` + donationColumns + ` FROM donations WHERE id = ?`

func (q *Queries) GetDonation(ctx context.Context, id string) (Donation, error) {
	return scanDonation(q.db.QueryRowContext(ctx, getDonation, id))
}

const listDonations = `SELECT ` + donationColumns + ` FROM donations
ORDER BY created_at DESC, rowid DESC`

// ListDonations returns every donation, newest first.
func (q *Queries) ListDonations(ctx context.Context) ([]Donation, error) {
	rows, err := q.db.QueryContext(ctx, listDonations)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Donation{}
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
