// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/greenpadconcepts/greenpad/internal/model"
	"github.com/greenpadconcepts/greenpad/internal/store"
)

// BlogStore persists blog posts.
type BlogStore interface {
	CreateBlogPost(ctx context.Context, arg store.CreateBlogPostParams) (store.BlogPost, error)
	UpdateBlogPost(ctx context.Context, arg store.UpdateBlogPostParams) (store.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) error
	GetBlogPost(ctx context.Context, id string) (store.BlogPost, error)
	ListBlogPosts(ctx context.Context, limit int64) ([]store.BlogPost, error)
	ListBlogPostsByCategory(ctx context.Context, category string) ([]store.BlogPost, error)
}

// PostInput holds the editable fields of a blog post.
type PostInput struct {
	Title    string
	Content  string
	Excerpt  string
	Image    string
	Category string
	Author   string
	ReadTime string
}

func (in PostInput) normalize() (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Image = strings.TrimSpace(in.Image)
	in.Category = strings.TrimSpace(in.Category)
	in.Author = strings.TrimSpace(in.Author)
	in.ReadTime = strings.TrimSpace(in.ReadTime)

	if err := required("title", in.Title, "content", in.Content); err != nil {
		return in, err
	}
	if in.Category == "" {
		in.Category = model.DefaultCategory
	}
	if !model.IsValidCategory(in.Category) {
		return in, fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	return in, nil
}

// BlogService manages blog posts.
type BlogService struct {
	store  BlogStore
	logger *slog.Logger
}

// NewBlogService creates a BlogService.
func NewBlogService(s BlogStore, logger *slog.Logger) *BlogService {
	return &BlogService{store: s, logger: logger}
}

// Create validates and stores a new post.
func (s *BlogService) Create(ctx context.Context, in PostInput) (store.BlogPost, error) {
	in, err := in.normalize()
	if err != nil {
		return store.BlogPost{}, err
	}

	post, err := s.store.CreateBlogPost(ctx, store.CreateBlogPostParams{
		Title:    in.Title,
		Content:  in.Content,
		Excerpt:  in.Excerpt,
		Image:    in.Image,
		Category: in.Category,
		Author:   in.Author,
		ReadTime: in.ReadTime,
	})
	if err != nil {
		return store.BlogPost{}, fmt.Errorf("creating blog post: %w", err)
	}

	s.logger.Info("blog post created", "post_id", post.ID, "title", post.Title)
	return post, nil
}

// Update overwrites the post's editable fields.
func (s *BlogService) Update(ctx context.Context, id string, in PostInput) (store.BlogPost, error) {
	in, err := in.normalize()
	if err != nil {
		return store.BlogPost{}, err
	}

	post, err := s.store.UpdateBlogPost(ctx, store.UpdateBlogPostParams{
		ID:       id,
		Title:    in.Title,
		Content:  in.Content,
		Excerpt:  in.Excerpt,
		Image:    in.Image,
		Category: in.Category,
		Author:   in.Author,
		ReadTime: in.ReadTime,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return store.BlogPost{}, ErrPostNotFound
	}
	if err != nil {
		return store.BlogPost{}, fmt.Errorf("updating blog post: %w", err)
	}

	s.logger.Info("blog post updated", "post_id", post.ID)
	return post, nil
}

// Delete removes a post. Deleting a missing post returns ErrPostNotFound.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	err := s.store.DeleteBlogPost(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting blog post: %w", err)
	}

	s.logger.Info("blog post deleted", "post_id", id)
	return nil
}

// Get returns one post.
func (s *BlogService) Get(ctx context.Context, id string) (store.BlogPost, error) {
	post, err := s.store.GetBlogPost(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.BlogPost{}, ErrPostNotFound
	}
	if err != nil {
		return store.BlogPost{}, fmt.Errorf("getting blog post: %w", err)
	}
	return post, nil
}

// List returns the newest posts, capped at model.DefaultPostListLimit.
func (s *BlogService) List(ctx context.Context) ([]store.BlogPost, error) {
	posts, err := s.store.ListBlogPosts(ctx, model.DefaultPostListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing blog posts: %w", err)
	}
	return posts, nil
}

// ListByCategory returns every post in category, newest first.
func (s *BlogService) ListByCategory(ctx context.Context, category string) ([]store.BlogPost, error) {
	posts, err := s.store.ListBlogPostsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("listing blog posts by category: %w", err)
	}
	return posts, nil
}

// Related returns up to n other posts from the same category.
func (s *BlogService) Related(ctx context.Context, post store.BlogPost, n int) ([]store.BlogPost, error) {
	posts, err := s.ListByCategory(ctx, post.Category)
	if err != nil {
		return nil, err
	}

	related := make([]store.BlogPost, 0, n)
	for _, p := range posts {
		if len(related) == n {
			break
		}
		if p.ID != post.ID {
			related = append(related, p)
		}
	}
	return related, nil
}

// FilterPosts keeps posts whose title or excerpt contains term (ignoring
// case) and whose category matches. An empty category or model.CategoryAll
// matches every post.
func FilterPosts(posts []store.BlogPost, term, category string) []store.BlogPost {
	term = strings.ToLower(strings.TrimSpace(term))
	anyCategory := category == "" || category == model.CategoryAll

	filtered := make([]store.BlogPost, 0, len(posts))
	for _, p := range posts {
		if !anyCategory && p.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Excerpt), term) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
