package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// EnvCredentialsJSON is the environment variable holding the authorized-user
// credential JSON directly, without an intermediate file.
const EnvCredentialsJSON = "GMAIL_CREDENTIALS_JSON"

// EnvCredentialsFile is the environment variable naming the credential file.
const EnvCredentialsFile = "GMAIL_CREDENTIALS_FILE"

// Credentials holds pre-authorized OAuth2 bearer token material for the Gmail
// API, in the authorized-user JSON format produced by the token command.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token"`
	TokenURI     string `json:"token_uri,omitempty"`
}

// ParseCredentials parses authorized-user credential JSON.
func ParseCredentials(data []byte) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials JSON: %w", err)
	}
	if creds.RefreshToken == "" && creds.AccessToken == "" {
		return nil, fmt.Errorf("credentials contain neither a refresh token nor an access token")
	}
	return &creds, nil
}

// LoadCredentials resolves credential material from, in order: the given file
// path, the GMAIL_CREDENTIALS_JSON environment variable, and the file named by
// GMAIL_CREDENTIALS_FILE.
func LoadCredentials(path string) (*Credentials, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		return ParseCredentials(data)
	}
	if raw := os.Getenv(EnvCredentialsJSON); raw != "" {
		return ParseCredentials([]byte(raw))
	}
	if file := os.Getenv(EnvCredentialsFile); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file %s: %w", file, err)
		}
		return ParseCredentials(data)
	}
	return nil, fmt.Errorf("no credentials provided; use --credentials-file or set %s", EnvCredentialsJSON)
}

// TokenSource returns an OAuth2 token source backed by the credentials.
// When a refresh token is present the source refreshes expired access tokens
// transparently; otherwise the bare access token is used as-is.
func (c *Credentials) TokenSource(ctx context.Context) oauth2.TokenSource {
	if c.RefreshToken == "" {
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: c.AccessToken,
			TokenType:   "Bearer",
		})
	}

	conf := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       Scopes,
	}
	if c.TokenURI != "" {
		conf.Endpoint.TokenURL = c.TokenURI
	}

	return conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		// Force an immediate refresh check on first use
		Expiry: time.Unix(1, 0),
	})
}

// HTTPClient returns an HTTP client configured with OAuth2 authentication.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
// observed with the Gmail API.
func (c *Credentials) HTTPClient(ctx context.Context) *http.Client {
	client := oauth2.NewClient(ctx, c.TokenSource(ctx))

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			ForceAttemptHTTP2: false,
		}
	}

	return client
}
