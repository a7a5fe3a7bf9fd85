// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/greenpadconcepts/greenpad/internal/model"
)

const contactSubmissionColumns = `id, name, email, subject, message, status, created_at`

func scanContactSubmission(s rowScanner) (ContactSubmission, error) {
	var c ContactSubmission
	err := s.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Subject,
		&c.Message,
		&c.Status,
		&c.CreatedAt,
	)
	return c, err
}

type CreateContactSubmissionParams struct {
	Name    string
	Email   string
	Subject string
	Message string
}

const createContactSubmission = `INSERT INTO contact_submissions (` + contactSubmissionColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// CreateContactSubmission stores a new submission. Status always starts unread.
func (q *Queries) CreateContactSubmission(ctx context.Context, arg CreateContactSubmissionParams) (ContactSubmission, error) {
	id := uuid.NewString()
	_, err := q.db.ExecContext(ctx, createContactSubmission,
		id,
		arg.Name,
		arg.Email,
		arg.Subject,
		arg.Message,
		model.SubmissionStatusUnread,
		q.now(),
	)
	if err != nil {
		return ContactSubmission{}, err
	}
	return q.GetContactSubmission(ctx, id)
}

const getContactSubmission = `SELECT ` + contactSubmissionColumns + ` FROM contact_submissions WHERE id = ?`

func (q *Queries) GetContactSubmission(ctx context.Context, id string) (ContactSubmission, error) {
	return scanContactSubmission(q.db.QueryRowContext(ctx, getContactSubmission, id))
}

const listContactSubmissions = `SELECT ` + contactSubmissionColumns + ` FROM contact_submissions
ORDER BY created_at DESC, rowid DESC`

func (q *Queries) ListContactSubmissions(ctx context.Context) ([]ContactSubmission, error) {
	rows, err := q.db.QueryContext(ctx, listContactSubmissions)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []ContactSubmission{}
	for rows.Next() {
		c, err := scanContactSubmission(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setContactSubmissionStatus = `UPDATE contact_submissions SET status = ? WHERE id = ? AND status = ?`

// MarkContactSubmissionRead moves a submission from unread to read.
// It reports whether a row changed; an already-read submission is left alone.
func (q *Queries) MarkContactSubmissionRead(ctx context.Context, id string) (bool, error) {
	return q.setContactSubmissionStatus(ctx, id, model.SubmissionStatusUnread, model.SubmissionStatusRead)
}

func (q *Queries) setContactSubmissionStatus(ctx context.Context, id, from, to string) (bool, error) {
	res, err := q.db.ExecContext(ctx, setContactSubmissionStatus, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
