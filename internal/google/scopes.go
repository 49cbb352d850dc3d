package google

import (
	gmail "google.golang.org/api/gmail/v1"
)

// Scopes are the Google OAuth scopes required by mailsift.
//
// The pipeline only ever reads messages and attachments, so the read-only
// Gmail scope is sufficient and nothing broader is requested.
var Scopes = []string{
	gmail.GmailReadonlyScope,
}
