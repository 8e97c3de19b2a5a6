// internal/identity/client.go
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"sentra/pkg/config"
)

// Client talks to the Keycloak admin API. Every call re-authenticates with the
// privileged service credentials; the admin token is held only for the single
// request and never cached.
type Client struct {
	base     string
	realm    string
	username string
	password string
	clientID string
	http     *http.Client
	log      *zap.SugaredLogger
}

func NewClient(cfg config.Config, log *zap.SugaredLogger) *Client {
	return &Client{
		base:     strings.TrimRight(cfg.KeycloakBaseURL, "/"),
		realm:    cfg.KeycloakRealm,
		username: cfg.KeycloakAdminUsername,
		password: cfg.KeycloakAdminPassword,
		clientID: cfg.KeycloakAdminClientID,
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// Authenticate exchanges the configured admin credentials for an access token
// on the master realm token endpoint.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", c.clientID)
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/realms/master/protocol/openid-connect/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("no access_token in response")
	}
	return body.AccessToken, nil
}

// FetchUser retrieves a single user from the realm admin endpoint.
func (c *Client) FetchUser(ctx context.Context, token, id string) (*User, error) {
	var u User
	if err := c.get(ctx, token, fmt.Sprintf("%s/admin/realms/%s/users/%s", c.base, c.realm, id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FetchUsers retrieves every user in the realm.
func (c *Client) FetchUsers(ctx context.Context, token string) ([]User, error) {
	var users []User
	if err := c.get(ctx, token, fmt.Sprintf("%s/admin/realms/%s/users", c.base, c.realm), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) get(ctx context.Context, token, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("keycloak returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
