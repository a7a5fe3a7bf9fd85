// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Contact submission statuses
const (
	SubmissionStatusUnread = "unread"
	SubmissionStatusRead   = "read"
)

// DefaultContactInbox receives contact form notifications when none is configured.
const DefaultContactInbox = "info@greenpadconcepts.org"
