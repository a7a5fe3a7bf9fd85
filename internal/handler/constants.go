// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	RouteRoot    = "/"
	RouteAbout   = "/about"
	RouteBlog    = "/blog"
	RouteDonate  = "/donate"
	RouteContact = "/contact"
	RouteHealth  = "/health"

	// RouteAdmin serves the login form and is where the session gate
	// sends anonymous visitors.
	RouteAdmin     = "/admin"
	RouteDashboard = "/admin/dashboard"

	RouteParamID       = "/{id}"
	RouteSuffixNew     = "/new"
	RouteSuffixDelete  = "/delete"
	RouteSuffixClose   = "/close"
	RouteSuffixLogout  = "/logout"
	RouteSuffixDone    = "/complete"
	RouteSuffixPosts   = "/posts"
	RouteSuffixMsgs    = "/messages"
	RouteSuffixUploads = "/uploads"

	RouteAPIPosts = "/api/v1/posts"
)

// Redirect targets.
const (
	redirectAdmin     = RouteAdmin
	redirectDashboard = RouteDashboard
	redirectPostsTab  = RouteDashboard + "?tab=posts"
	redirectMsgsTab   = RouteDashboard + "?tab=messages"
	redirectDonate    = RouteDonate
	redirectContact   = RouteContact
)

// Dashboard tabs.
const (
	TabOverview  = "overview"
	TabPosts     = "posts"
	TabMessages  = "messages"
	TabDonations = "donations"
)

// Flash message types.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
	flashTypeInfo    = "info"
)

// maxUploadSize bounds image uploads.
const maxUploadSize = 10 << 20

// relatedPostCount is how many related posts the detail page shows.
const relatedPostCount = 2

// homePostCount is how many recent posts the home page shows.
const homePostCount = 3
