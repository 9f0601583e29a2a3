package auth

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// Provider is a social sign-in provider. Dispatch is by switch so adding a
// variant fails loudly wherever it is not handled.
type Provider int

const (
	ProviderGoogle Provider = iota + 1
	ProviderApple
	ProviderGitHub
)

var appleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://appleid.apple.com/auth/authorize",
	TokenURL:  "https://appleid.apple.com/auth/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "google":
		return ProviderGoogle, nil
	case "apple":
		return ProviderApple, nil
	case "github":
		return ProviderGitHub, nil
	default:
		return 0, fmt.Errorf("unsupported provider %q", s)
	}
}

func (p Provider) String() string {
	switch p {
	case ProviderGoogle:
		return "google"
	case ProviderApple:
		return "apple"
	case ProviderGitHub:
		return "github"
	default:
		return fmt.Sprintf("provider(%d)", int(p))
	}
}

func (p Provider) endpoint() (oauth2.Endpoint, []string, error) {
	switch p {
	case ProviderGoogle:
		return google.Endpoint, []string{"openid", "email", "profile"}, nil
	case ProviderApple:
		return appleEndpoint, []string{"name", "email"}, nil
	case ProviderGitHub:
		return github.Endpoint, []string{"read:user", "user:email"}, nil
	default:
		return oauth2.Endpoint{}, nil, fmt.Errorf("unsupported provider %s", p)
	}
}

type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Providers builds oauth2 configs for the providers that have credentials.
type Providers struct {
	redirectURL string
	credentials map[Provider]Credentials
}

func NewProviders(redirectURL string, credentials map[Provider]Credentials) *Providers {
	return &Providers{redirectURL: redirectURL, credentials: credentials}
}

func (p *Providers) Config(provider Provider) (*oauth2.Config, error) {
	endpoint, scopes, err := provider.endpoint()
	if err != nil {
		return nil, err
	}
	creds, ok := p.credentials[provider]
	if !ok || creds.ClientID == "" {
		return nil, fmt.Errorf("provider %s is not configured", provider)
	}
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  strings.TrimRight(p.redirectURL, "/") + "/" + provider.String(),
		Endpoint:     endpoint,
		Scopes:       scopes,
	}, nil
}

// AuthCodeURL returns the URL the browser is sent to for sign-in.
func (p *Providers) AuthCodeURL(provider Provider, state string) (string, error) {
	cfg, err := p.Config(provider)
	if err != nil {
		return "", err
	}
	var opts []oauth2.AuthCodeOption
	if provider == ProviderApple {
		// apple only returns name/email scopes with a form post
		opts = append(opts, oauth2.SetAuthURLParam("response_mode", "form_post"))
	}
	return cfg.AuthCodeURL(state, opts...), nil
}
