package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"igbatch/pkg/errors"
	"igbatch/pkg/models"
)

var csrfPattern = regexp.MustCompile(`"csrf_token":"([^"]+)"`)

// Authenticate logs in through the web login form. Bad credentials and
// two-factor challenges are reported as ErrorTypeBadCredentials and
// ErrorTypeTwoFactor; every other refusal is ErrorTypeAuth. Login is not retried.
func (c *Client) Authenticate(ctx context.Context, creds models.Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return errors.New(errors.ErrorTypeBadCredentials, "username and password are required")
	}

	csrf, err := c.fetchCSRFToken(ctx)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("enc_password", EncryptedPassword(creds.Password, time.Now().Unix()))
	form.Set("queryParams", "{}")
	form.Set("optIntoOneTap", "false")

	req, err := c.newRequest(ctx, http.MethodPost, LoginEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", c.baseURL+LoginPageEndpoint)
	req.Header.Set("X-CSRFToken", csrf)

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Refusals arrive as 400 with a JSON body
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return c.checkResponseStatus(resp)
	}

	var login LoginResponse
	if err := c.decode(resp, &login); err != nil {
		return err
	}

	if err := classifyLogin(creds.Username, &login); err != nil {
		c.logger.WarnWithFields("login refused", map[string]interface{}{
			"username": creds.Username,
			"reason":   string(errors.TypeOf(err)),
		})
		return err
	}

	c.logger.InfoWithFields("logged in", map[string]interface{}{
		"username": creds.Username,
		"user_id":  login.UserID,
	})
	return nil
}

// classifyLogin maps a login response onto the auth error types
func classifyLogin(username string, login *LoginResponse) error {
	switch {
	case login.TwoFactorRequired:
		return errors.New(errors.ErrorTypeTwoFactor, fmt.Sprintf("account %s requires two-factor authentication", username))
	case login.CheckpointURL != "":
		return errors.New(errors.ErrorTypeAuth, "checkpoint required: "+login.CheckpointURL)
	case login.Status != "" && login.Status != "ok":
		msg := login.Message
		if msg == "" {
			msg = "login failed with status " + login.Status
		}
		return errors.New(errors.ErrorTypeAuth, msg)
	case login.Authenticated:
		return nil
	case login.User:
		return errors.New(errors.ErrorTypeBadCredentials, "wrong password")
	default:
		return errors.New(errors.ErrorTypeBadCredentials, fmt.Sprintf("user %s does not exist", username))
	}
}

// fetchCSRFToken loads the login page so the server sets a csrftoken cookie.
// Some responses embed the token in the page instead.
func (c *Client) fetchCSRFToken(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, LoginPageEndpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return "", err
	}

	if token := c.cookie("csrftoken"); token != "" {
		return token, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(errors.ErrorTypeNetwork, "failed to read login page", err)
	}
	if m := csrfPattern.FindSubmatch(body); m != nil {
		return string(m[1]), nil
	}
	return "", errors.New(errors.ErrorTypeAuth, "no csrf token in login page")
}
