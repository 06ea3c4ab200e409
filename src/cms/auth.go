package cms

import (
	"context"
	"net/http"
	"tourbook/src/config"
	"tourbook/src/domain"
	"tourbook/src/models"

	"github.com/tidwall/gjson"
)

// Login exchanges credentials for a token. The answer only counts when it
// carries a token and a user with a positive id.
func (c *Client) Login(ctx context.Context, identifier, password string) (string, *models.UserRecord, error) {
	payload, err := c.sendJSON(ctx, http.MethodPost, config.LoginEndpoint, map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	if err != nil {
		return "", nil, domain.CredentialError{Err: err}
	}
	jwt := gjson.GetBytes(payload, "jwt").String()
	user := NormalizeUser(gjson.GetBytes(payload, "user"))
	if jwt == "" || user.ID == 0 {
		return "", nil, domain.CredentialError{}
	}
	return jwt, user, nil
}

// Me resolves the user owning token.
func (c *Client) Me(ctx context.Context, token string) (*models.UserRecord, error) {
	payload, err := c.WithToken(StaticToken(token)).get(ctx, config.JwtUserEndpoint+"?populate=role")
	if err != nil {
		return nil, err
	}
	user := NormalizeUser(gjson.ParseBytes(payload))
	if user.ID == 0 {
		return nil, domain.CredentialError{}
	}
	return user, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (string, *models.UserRecord, error) {
	payload, err := c.sendJSON(ctx, http.MethodPost, config.RegisterEndpoint, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", nil, err
	}
	return gjson.GetBytes(payload, "jwt").String(), NormalizeUser(gjson.GetBytes(payload, "user")), nil
}

// CountUsers returns the number of registered users.
func (c *Client) CountUsers(ctx context.Context) (int, error) {
	payload, err := c.get(ctx, "/users")
	if err != nil {
		return 0, err
	}
	return len(gjson.ParseBytes(payload).Array()), nil
}
