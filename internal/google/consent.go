package google

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OOB is the out-of-band redirect URI for the installed-app consent flow.
const OOB = "urn:ietf:wg:oauth:2.0:oob"

// consentConfig returns the OAuth2 configuration for the one-time consent
// flow that produces reusable credentials for unattended runs.
func consentConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  OOB,
		Scopes:       Scopes,
	}
}

// ConsentURL returns the URL the user must visit to authorize mailsift.
// Offline access and a forced consent prompt guarantee a refresh token in
// the exchange response.
func ConsentURL(clientID, clientSecret string) string {
	conf := consentConfig(clientID, clientSecret)
	return conf.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

// ExchangeAuthCode exchanges an authorization code for credentials suitable
// for unattended runs.
func ExchangeAuthCode(ctx context.Context, clientID, clientSecret, authCode string) (*Credentials, error) {
	conf := consentConfig(clientID, clientSecret)

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	if t.RefreshToken == "" {
		return nil, fmt.Errorf("authorization response contained no refresh token")
	}

	return &Credentials{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
	}, nil
}

// MarshalCredentials renders credentials as the authorized-user JSON accepted
// by LoadCredentials.
func MarshalCredentials(creds *Credentials) ([]byte, error) {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}
	return data, nil
}
