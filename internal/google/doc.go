// Package google handles OAuth2 credential material for the Gmail API.
//
// The pipeline runs unattended, so credentials are supplied as pre-authorized
// authorized-user JSON (client id/secret plus refresh token) rather than
// acquired interactively at run time. The package resolves that material from
// a file or environment variable and turns it into an oauth2.TokenSource that
// refreshes access tokens transparently for the duration of a run.
//
// The one-time consent flow that produces the credential JSON is also
// implemented here and exposed through the token subcommand.
package google
