package provision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	defaultEntitlements = []string{
		"spark",
		"webExSquared",
		"squaredCallInitiation",
		"squaredRoomModeration",
		"squaredInviter",
		"squaredSyncUp",
	}
	defaultUserScopes  = []string{"spark:all", "spark:kms"}
	defaultAdminScopes = []string{"webexsquare:admin", "Identity:SCIM"}
)

// Token is the OAuth token issued to a provisioned test user.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// TestUser is an ephemeral platform user.
type TestUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	OrgID       string `json:"orgId,omitempty"`
	Password    string `json:"-"`
	Token       Token  `json:"-"`
}

// UserOptions customizes a created user. Zero fields get generated values.
type UserOptions struct {
	DisplayName  string
	Email        string
	Password     string
	Entitlements []string
	Scopes       []string
}

// UserServiceConfig wires the test-users endpoint and its client credentials.
type UserServiceConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	AdminScopes  []string
	HTTPClient   *http.Client
	Options      []Option
}

// UserService creates and deletes test users.
type UserService struct {
	cfg UserServiceConfig
}

// NewUserService fills in the default HTTP client and admin scopes.
func NewUserService(cfg UserServiceConfig) *UserService {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if len(cfg.AdminScopes) == 0 {
		cfg.AdminScopes = defaultAdminScopes
	}
	return &UserService{cfg: cfg}
}

type createUserRequest struct {
	ClientID      string   `json:"clientId"`
	ClientSecret  string   `json:"clientSecret"`
	DisplayName   string   `json:"displayName"`
	EmailTemplate string   `json:"emailTemplate"`
	Password      string   `json:"password"`
	Entitlements  []string `json:"entitlements"`
	Scopes        string   `json:"scopes"`
	AuthCodeOnly  bool     `json:"authCodeOnly"`
}

type createUserResponse struct {
	User  TestUser `json:"user"`
	Token Token    `json:"token"`
}

type deleteUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUser provisions a user and returns it with its access token.
func (s *UserService) CreateUser(ctx context.Context, opts UserOptions) (*TestUser, error) {
	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return nil, errors.New("client credentials are required to create a test user")
	}

	suffix := uuid.NewString()
	if opts.DisplayName == "" {
		opts.DisplayName = "Widget E2E " + suffix[:8]
	}
	if opts.Email == "" {
		opts.Email = "widget-e2e-" + suffix + "@example.com"
	}
	if opts.Password == "" {
		opts.Password = "Aa1!" + strings.ReplaceAll(suffix, "-", "")[:16]
	}
	if len(opts.Entitlements) == 0 {
		opts.Entitlements = defaultEntitlements
	}
	if len(opts.Scopes) == 0 {
		opts.Scopes = defaultUserScopes
	}

	cc := clientcredentials.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		TokenURL:     s.cfg.TokenURL,
		Scopes:       s.cfg.AdminScopes,
	}
	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, s.cfg.HTTPClient)
	client := NewClient(s.cfg.BaseURL, cc.TokenSource(tokenCtx), s.options()...)

	req := createUserRequest{
		ClientID:      s.cfg.ClientID,
		ClientSecret:  s.cfg.ClientSecret,
		DisplayName:   opts.DisplayName,
		EmailTemplate: opts.Email,
		Password:      opts.Password,
		Entitlements:  opts.Entitlements,
		Scopes:        strings.Join(opts.Scopes, " "),
		AuthCodeOnly:  false,
	}
	var resp createUserResponse
	if err := client.Do(ctx, http.MethodPost, "/users/test_users_s", req, &resp); err != nil {
		return nil, fmt.Errorf("create test user: %w", err)
	}
	if resp.Token.AccessToken == "" {
		return nil, errors.New("create test user: response carried no access token")
	}

	user := resp.User
	user.Password = opts.Password
	user.Token = resp.Token
	if user.Email == "" {
		user.Email = opts.Email
	}
	if user.DisplayName == "" {
		user.DisplayName = opts.DisplayName
	}
	return &user, nil
}

// RemoveUser deletes a user created by CreateUser, authorized by the user's
// own token. A nil user is a no-op.
func (s *UserService) RemoveUser(ctx context.Context, user *TestUser) error {
	if user == nil {
		return nil
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: user.Token.AccessToken})
	client := NewClient(s.cfg.BaseURL, ts, s.options()...)

	req := deleteUserRequest{Email: user.Email, Password: user.Password}
	if err := client.Do(ctx, http.MethodPost, "/users/test_users_delete", req, nil); err != nil {
		return fmt.Errorf("remove test user %s: %w", user.Email, err)
	}
	return nil
}

func (s *UserService) options() []Option {
	return append([]Option{WithHTTPClient(s.cfg.HTTPClient)}, s.cfg.Options...)
}
