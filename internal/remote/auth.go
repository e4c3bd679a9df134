package remote

import (
	"context"
	"net/url"

	"github.com/Tiliavir/jbstime/internal/apperr"
)

const loginPath = "/accounts/login/"

// authState tracks the session login. A client moves from loggedOut through
// loggingIn to loggedIn at most once.
type authState int

const (
	loggedOut authState = iota
	loggingIn
	loggedIn
)

func (s authState) String() string {
	switch s {
	case loggingIn:
		return "logging in"
	case loggedIn:
		return "logged in"
	default:
		return "logged out"
	}
}

// LoggedIn reports whether the session has authenticated.
func (c *Client) LoggedIn() bool { return c.state == loggedIn }

func (c *Client) ensureLoggedIn(ctx context.Context) error {
	switch c.state {
	case loggedIn:
		return nil
	case loggingIn:
		return apperr.New(apperr.Unexpected, "login re-entered while %s", c.state)
	}
	return c.login(ctx)
}

// login posts the credentials form. A rejection is reported as LoginFailed
// and leaves the client logged out.
func (c *Client) login(ctx context.Context) error {
	if c.credentials == nil {
		return apperr.New(apperr.LoginFailed, "Login failed. No credentials available.")
	}
	username, password, err := c.credentials()
	if err != nil {
		return err
	}

	c.state = loggingIn
	c.log.WithField("username", username).Debug("logging in")

	resp, err := c.post(ctx, loginPath, url.Values{
		"username": {username},
		"password": {password},
	}, postOptions{referer: loginPath})
	if err != nil {
		c.state = loggedOut
		return err
	}
	if Classify(resp.Text()) == OutcomeLoginRejected {
		c.state = loggedOut
		return apperr.New(apperr.LoginFailed, "Login failed. Check your username and password.")
	}

	c.state = loggedIn
	return nil
}
