// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenpadconcepts/greenpad/internal/middleware"
)

// Handlers groups every handler the router needs.
type Handlers struct {
	Frontend *FrontendHandler
	Contact  *ContactHandler
	Donate   *DonateHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
	Uploads  *UploadHandler
	API      *APIHandler
	Health   *HealthHandler
	SEO      *SEOHandler
}

// RegisterRoutes mounts the public site, the admin area and the JSON API on
// r. Session, CSRF and identity middleware must already be installed.
func RegisterRoutes(r chi.Router, h Handlers) {
	r.Get(RouteHealth, h.Health.Health)
	r.Get(RouteRobots, h.SEO.Robots)
	r.Get(RouteSitemap, h.SEO.Sitemap)

	registerFrontendRoutes(r, h)

	r.Route(RouteAdmin, func(r chi.Router) {
		r.With(middleware.RedirectIfIdentity(RouteDashboard)).Get(RouteRoot, h.Auth.LoginForm)
		r.With(middleware.RedirectIfIdentity(RouteDashboard)).Post(RouteRoot, h.Auth.Login)
		r.Post(RouteSuffixLogout, h.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity(RouteAdmin))
			registerAdminRoutes(r, h)
		})
	})

	r.Route(RouteAPIPosts, func(r chi.Router) {
		r.Get(RouteRoot, h.API.ListPosts)
		r.Get(RouteParamID, h.API.GetPost)
	})

	r.NotFound(h.Frontend.NotFound)
}

func registerFrontendRoutes(r chi.Router, h Handlers) {
	r.Get(RouteRoot, h.Frontend.Home)
	r.Get(RouteAbout, h.Frontend.About)
	r.Get(RouteBlog, h.Frontend.Blog)
	r.Get(RouteBlog+RouteParamID, h.Frontend.BlogPost)

	r.Get(RouteDonate, h.Donate.Form)
	r.Post(RouteDonate, h.Donate.Begin)
	r.Post(RouteDonate+RouteSuffixDone, h.Donate.Complete)

	r.Get(RouteContact, h.Contact.Form)
	r.Post(RouteContact, h.Contact.Submit)
}

// registerAdminRoutes mounts the guarded dashboard routes below /admin.
func registerAdminRoutes(r chi.Router, h Handlers) {
	const (
		dashboard = "/dashboard"
		posts     = dashboard + RouteSuffixPosts
		postID    = posts + RouteParamID
		messageID = dashboard + RouteSuffixMsgs + RouteParamID
	)

	r.Get(dashboard, h.Admin.Dashboard)

	r.Get(posts+RouteSuffixNew, h.Admin.NewPost)
	r.Post(posts, h.Admin.CreatePost)
	r.Get(postID, h.Admin.EditPost)
	r.Post(postID, h.Admin.UpdatePost)
	r.Post(postID+RouteSuffixDelete, h.Admin.DeletePost)

	r.Get(messageID, h.Admin.Message)
	r.Post(messageID+RouteSuffixClose, h.Admin.CloseMessage)

	r.Post(dashboard+RouteSuffixUploads, h.Uploads.Upload)
}

// StaticHandler serves embedded assets below /static/.
func StaticHandler(assets http.FileSystem) http.Handler {
	return http.StripPrefix("/static/", http.FileServer(assets))
}
