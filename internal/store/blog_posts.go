// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/google/uuid"
)

const blogPostColumns = `id, title, content, excerpt, image, category, author, read_time, created_at, updated_at`

func scanBlogPost(s rowScanner) (BlogPost, error) {
	var p BlogPost
	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.Excerpt,
		&p.Image,
		&p.Category,
		&p.Author,
		&p.ReadTime,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

type CreateBlogPostParams struct {
	Title    string
	Content  string
	Excerpt  string
	Image    string
	Category string
	Author   string
	ReadTime string
}

const createBlogPost = `INSERT INTO blog_posts (` + blogPostColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateBlogPost inserts a post with a fresh id; both timestamps are set to now.
func (q *Queries) CreateBlogPost(ctx context.Context, arg CreateBlogPostParams) (BlogPost, error) {
	id := uuid.NewString()
	now := q.now()
	_, err := q.db.ExecContext(ctx, createBlogPost,
		id,
		arg.Title,
		arg.Content,
		arg.Excerpt,
		arg.Image,
		arg.Category,
		arg.Author,
		arg.ReadTime,
		now,
		now,
	)
	if err != nil {
		return BlogPost{}, err
	}
	return q.GetBlogPost(ctx, id)
}

type UpdateBlogPostParams struct {
	ID       string
	Title    string
	Content  string
	Excerpt  string
	Image    string
	Category string
	Author   string
	ReadTime string
}

const updateBlogPost = `UPDATE blog_posts
SET title = ?, content = ?, excerpt = ?, image = ?, category = ?, author = ?, read_time = ?, updated_at = ?
WHERE id = ?`

// UpdateBlogPost overwrites the editable fields and refreshes updated_at.
// created_at is never changed.
func (q *Queries) UpdateBlogPost(ctx context.Context, arg UpdateBlogPostParams) (BlogPost, error) {
	res, err := q.db.ExecContext(ctx, updateBlogPost,
		arg.Title,
		arg.Content,
		arg.Excerpt,
		arg.Image,
		arg.Category,
		arg.Author,
		arg.ReadTime,
		q.now(),
		arg.ID,
	)
	if err != nil {
		return BlogPost{}, err
	}
	if err := requireAffected(res); err != nil {
		return BlogPost{}, err
	}
	return q.GetBlogPost(ctx, arg.ID)
}

const deleteBlogPost = `DELETE FROM blog_posts WHERE id = ?`

// DeleteBlogPost removes a post. It returns sql.ErrNoRows if nothing was deleted.
func (q *Queries) DeleteBlogPost(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, deleteBlogPost, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const getBlogPost = `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = ?`

func (q *Queries) GetBlogPost(ctx context.Context, id string) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx, getBlogPost, id))
}

const listBlogPosts = `SELECT ` + blogPostColumns + ` FROM blog_posts
ORDER BY created_at DESC, rowid DESC
LIMIT ?`

// ListBlogPosts returns up to limit posts, newest first.
func (q *Queries) ListBlogPosts(ctx context.Context, limit int64) ([]BlogPost, error) {
	return q.queryBlogPosts(ctx, listBlogPosts, limit)
}

const listBlogPostsByCategory = `SELECT ` + blogPostColumns + ` FROM blog_posts
WHERE category = ?
ORDER BY created_at DESC, rowid DESC`

// ListBlogPostsByCategory returns every post in category, newest first.
func (q *Queries) ListBlogPostsByCategory(ctx context.Context, category string) ([]BlogPost, error) {
	return q.queryBlogPosts(ctx, listBlogPostsByCategory, category)
}

func (q *Queries) queryBlogPosts(ctx context.Context, query string, args ...any) ([]BlogPost, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []BlogPost{}
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
