// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/greenpadconcepts/greenpad/internal/seo"
	"github.com/greenpadconcepts/greenpad/internal/service"
)

// Crawler file routes.
const (
	RouteRobots  = "/robots.txt"
	RouteSitemap = "/sitemap.xml"
)

// SEOHandler serves robots.txt and sitemap.xml.
type SEOHandler struct {
	blog        *service.BlogService
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates a new SEOHandler. An empty siteURL is derived from
// the request host. disallowAll keeps crawlers off the whole site.
func NewSEOHandler(blog *service.BlogService, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{blog: blog, siteURL: siteURL, disallowAll: disallowAll}
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content := seo.BuildRobots(seo.RobotsConfig{
		SiteURL:       h.baseURL(r),
		DisallowAll:   h.disallowAll,
		DisallowPaths: []string{RouteAdmin, RouteAPIPosts},
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.List(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list posts for sitemap", "error", err)
		return
	}

	b := seo.NewSitemapBuilder(h.baseURL(r))
	b.AddHomepage()
	b.AddPage(RouteAbout, seo.ChangeFreqMonthly, "0.8")
	b.AddPage(RouteBlog, seo.ChangeFreqDaily, "0.9")
	b.AddPage(RouteDonate, seo.ChangeFreqMonthly, "0.7")
	b.AddPage(RouteContact, seo.ChangeFreqMonthly, "0.5")
	for _, p := range posts {
		b.AddPost(seo.SitemapPost{Path: RouteBlog + "/" + p.ID, UpdatedAt: p.UpdatedAt})
	}

	data, err := b.Build()
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(data)
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
