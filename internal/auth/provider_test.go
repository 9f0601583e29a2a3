package auth_test

import (
	"net/url"
	"testing"

	"deckboard/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    auth.Provider
		wantErr bool
	}{
		{in: "google", want: auth.ProviderGoogle},
		{in: " Apple ", want: auth.ProviderApple},
		{in: "GITHUB", want: auth.ProviderGitHub},
		{in: "facebook", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := auth.ParseProvider(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) auth.Provider {
	t.Helper()
	p, err := auth.ParseProvider(s)
	require.NoError(t, err)
	return p
}

func TestProviders_AuthCodeURL(t *testing.T) {
	providers := auth.NewProviders("https://deckboard.test/auth/callback/", map[auth.Provider]auth.Credentials{
		auth.ProviderGoogle: {ClientID: "google-id", ClientSecret: "s"},
		auth.ProviderApple:  {ClientID: "apple-id", ClientSecret: "s"},
		auth.ProviderGitHub: {ClientID: "github-id", ClientSecret: "s"},
	})

	tests := []struct {
		provider auth.Provider
		host     string
		clientID string
	}{
		{auth.ProviderGoogle, "accounts.google.com", "google-id"},
		{auth.ProviderApple, "appleid.apple.com", "apple-id"},
		{auth.ProviderGitHub, "github.com", "github-id"},
	}

	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			raw, err := providers.AuthCodeURL(tt.provider, "state-123")
			require.NoError(t, err)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			q := u.Query()
			assert.Equal(t, tt.host, u.Host)
			assert.Equal(t, tt.clientID, q.Get("client_id"))
			assert.Equal(t, "state-123", q.Get("state"))
			assert.Equal(t, "https://deckboard.test/auth/callback/"+tt.provider.String(), q.Get("redirect_uri"))
			if tt.provider == auth.ProviderApple {
				assert.Equal(t, "form_post", q.Get("response_mode"))
			}
		})
	}
}

func TestProviders_Unconfigured(t *testing.T) {
	providers := auth.NewProviders("https://deckboard.test/cb", nil)

	_, err := providers.AuthCodeURL(auth.ProviderGitHub, "s")
	assert.Error(t, err)

	_, err = providers.AuthCodeURL(auth.Provider(42), "s")
	assert.Error(t, err)
}
