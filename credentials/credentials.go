package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"

	"github.com/uhppoted/uhppoted-app-formfiles/config"
	"github.com/uhppoted/uhppoted-app-formfiles/errors"
)

const (
	CLOUD_PLATFORM = "https://www.googleapis.com/auth/cloud-platform"
	DRIVE          = "https://www.googleapis.com/auth/drive"
	SHEETS         = "https://www.googleapis.com/auth/spreadsheets"
	FORMS          = "https://www.googleapis.com/auth/forms.responses.readonly"
	FORMS_BODY     = "https://www.googleapis.com/auth/forms.body.readonly"
)

// Scopes requested by default: object storage plus the Drive, Sheets and Forms
// APIs used to fetch, record and discover uploaded files.
var Scopes = []string{CLOUD_PLATFORM, DRIVE, SHEETS, FORMS, FORMS_BODY}

const lifetime = 1 * time.Hour

// ServiceAccount is a Google service account key as downloaded from the cloud
// console.
type ServiceAccount struct {
	Type                string `json:"type"`
	ProjectID           string `json:"project_id"`
	PrivateKeyID        string `json:"private_key_id"`
	PrivateKey          string `json:"private_key"`
	ClientEmail         string `json:"client_email"`
	ClientID            string `json:"client_id"`
	AuthURI             string `json:"auth_uri"`
	TokenURI            string `json:"token_uri"`
	AuthProviderCertURL string `json:"auth_provider_x509_cert_url"`
	ClientCertURL       string `json:"client_x509_cert_url"`
	UniverseDomain      string `json:"universe_domain"`
}

// ParseServiceAccount decodes a service account key and checks that the fields
// needed to sign a token request are present.
func ParseServiceAccount(b []byte) (*ServiceAccount, error) {
	var account ServiceAccount
	if err := json.Unmarshal(b, &account); err != nil {
		return nil, errors.NewConfigurationError("invalid service account key", err)
	}

	switch {
	case strings.TrimSpace(account.PrivateKey) == "":
		return nil, errors.NewConfigurationError("service account key is missing 'private_key'", nil)

	case strings.TrimSpace(account.ClientEmail) == "":
		return nil, errors.NewConfigurationError("service account key is missing 'client_email'", nil)

	case strings.TrimSpace(account.ProjectID) == "":
		return nil, errors.NewConfigurationError("service account key is missing 'project_id'", nil)
	}

	return &account, nil
}

// JWTConfig returns the JWT-bearer grant configuration for the service account.
// The assertion audience is the token endpoint.
func (sa ServiceAccount) JWTConfig(scopes ...string) *jwt.Config {
	url := sa.TokenURI
	if strings.TrimSpace(url) == "" {
		url = google.JWTTokenURL
	}

	return &jwt.Config{
		Email:        sa.ClientEmail,
		PrivateKey:   []byte(sa.PrivateKey),
		PrivateKeyID: sa.PrivateKeyID,
		Scopes:       scopes,
		TokenURL:     url,
		Expires:      lifetime,
	}
}

// Provider lazily reads the service account from the property store and
// exchanges it for bearer tokens. The service account and token source are
// cached for the lifetime of the process.
type Provider struct {
	properties config.PropertyStore
	scopes     []string

	sync.Mutex
	account *ServiceAccount
	tokens  oauth2.TokenSource
}

func NewProvider(properties config.PropertyStore, scopes ...string) *Provider {
	if len(scopes) == 0 {
		scopes = Scopes
	}

	return &Provider{
		properties: properties,
		scopes:     scopes,
	}
}

// Account returns the service account configured in the 'serviceAccount'
// property. The property holds either the key JSON or the path to a key file.
func (p *Provider) Account() (*ServiceAccount, error) {
	p.Lock()
	defer p.Unlock()

	return p.load()
}

// TokenSource returns the shared caching token source. Tokens are refreshed by
// the token source when they expire.
func (p *Provider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	p.Lock()
	defer p.Unlock()

	if p.tokens != nil {
		return p.tokens, nil
	}

	account, err := p.load()
	if err != nil {
		return nil, err
	}

	p.tokens = account.JWTConfig(p.scopes...).TokenSource(context.WithoutCancel(ctx))

	return p.tokens, nil
}

// Token returns a bearer token, exchanging the service account assertion at the
// token endpoint if there is no cached unexpired token.
func (p *Provider) Token(ctx context.Context) (*oauth2.Token, error) {
	tokens, err := p.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	token, err := tokens.Token()
	if err != nil {
		return nil, errors.NewAuthError("token exchange failed", err)
	} else if token.AccessToken == "" {
		return nil, errors.NewAuthError("token endpoint returned an empty access token", nil)
	}

	return token, nil
}

func (p *Provider) load() (*ServiceAccount, error) {
	if p.account != nil {
		return p.account, nil
	}

	if p.properties == nil {
		return nil, errors.NewConfigurationError("no property store", nil)
	}

	v, ok := p.properties.Property(config.ServiceAccount)
	if !ok {
		return nil, errors.NewConfigurationError(fmt.Sprintf("missing '%v' property", config.ServiceAccount), nil)
	}

	bytes := []byte(v)
	if !strings.HasPrefix(v, "{") {
		b, err := os.ReadFile(v)
		if err != nil {
			return nil, errors.NewConfigurationError("unable to read service account key file", err)
		}

		bytes = b
	}

	account, err := ParseServiceAccount(bytes)
	if err != nil {
		return nil, err
	}

	p.account = account

	return p.account, nil
}
