package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/jbstime/internal/apperr"
	"github.com/Tiliavir/jbstime/internal/remote"
)

// fakeSite mimics the login and CSRF behaviour of the timesheet site.
type fakeSite struct {
	logins   int
	requests []*http.Request
	forms    []url.Values
}

func (f *fakeSite) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts/login/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok-login", Path: "/"})
			_, _ = w.Write([]byte("<form>login</form>"))
			return
		}
		f.logins++
		_ = r.ParseForm()
		if r.PostForm.Get("csrfmiddlewaretoken") != "tok-login" || r.Header.Get("X-CSRFToken") != "tok-login" {
			http.Error(w, "csrf", http.StatusForbidden)
			return
		}
		if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "secret" {
			_, _ = w.Write([]byte("<p>Your username and password didn't match. Please try again.</p>"))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "s1", Path: "/"})
		_, _ = w.Write([]byte("welcome"))
	})
	mux.HandleFunc("/timesheet/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("sessionid"); err != nil {
			http.Error(w, "not logged in", http.StatusForbidden)
			return
		}
		if r.Method == http.MethodGet {
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok-sheet", Path: "/"})
			_, _ = w.Write([]byte("sheet page"))
			return
		}
		_ = r.ParseForm()
		f.requests = append(f.requests, r)
		f.forms = append(f.forms, r.PostForm)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/broken/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	return mux
}

func newClient(t *testing.T, site *fakeSite, user, pass string) (*remote.Client, *int) {
	t.Helper()
	srv := httptest.NewServer(site.handler())
	t.Cleanup(srv.Close)

	calls := 0
	c, err := remote.NewClient(srv.URL, remote.WithCredentials(func() (string, string, error) {
		calls++
		return user, pass, nil
	}))
	require.NoError(t, err)
	return c, &calls
}

func TestGetLogsInOnce(t *testing.T) {
	site := &fakeSite{}
	c, calls := newClient(t, site, "alice", "secret")
	ctx := context.Background()

	assert.False(t, c.LoggedIn())
	resp, err := c.Get(ctx, "/timesheet/")
	require.NoError(t, err)
	assert.Equal(t, "sheet page", resp.Text())
	assert.True(t, c.LoggedIn())

	_, err = c.Get(ctx, "/timesheet/")
	require.NoError(t, err)
	assert.Equal(t, 1, site.logins)
	assert.Equal(t, 1, *calls, "credentials are only requested for the login")
}

func TestLoginRejected(t *testing.T) {
	site := &fakeSite{}
	c, _ := newClient(t, site, "alice", "wrong")

	_, err := c.Get(context.Background(), "/timesheet/")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.LoginFailed))
	assert.Equal(t, 5, apperr.ExitCode(err))
	assert.Equal(t, "Login failed. Check your username and password.", apperr.Message(err))
	assert.False(t, c.LoggedIn())
}

func TestNoCredentials(t *testing.T) {
	c, err := remote.NewClient("http://127.0.0.1:1")
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "/")
	assert.True(t, apperr.Is(err, apperr.LoginFailed))
}

func TestPostSendsCSRF(t *testing.T) {
	site := &fakeSite{}
	c, _ := newClient(t, site, "alice", "secret")

	form := url.Values{"id": {"42"}, "action": {"delete"}}
	_, err := c.Post(context.Background(), "/timesheet/", form, remote.AsXHR())
	require.NoError(t, err)

	require.Len(t, site.forms, 1)
	got := site.forms[0]
	assert.Equal(t, "42", got.Get("id"))
	assert.Equal(t, "delete", got.Get("action"))
	assert.Equal(t, "tok-sheet", got.Get("csrf_token"))
	assert.Equal(t, "tok-sheet", got.Get("csrfmiddlewaretoken"))

	req := site.requests[0]
	assert.Equal(t, "tok-sheet", req.Header.Get("X-CSRFToken"))
	assert.Equal(t, "XMLHttpRequest", req.Header.Get("X-Requested-With"))
	assert.Contains(t, req.Header.Get("Referer"), "/timesheet/")

	_, present := form["csrf_token"]
	assert.False(t, present, "caller's form is not modified")
}

func TestPostWithReferer(t *testing.T) {
	site := &fakeSite{}
	c, _ := newClient(t, site, "alice", "secret")

	_, err := c.Post(context.Background(), "/timesheet/", url.Values{"newsheet": {"05/24/2020"}},
		remote.WithReferer("/accounts/login/"))
	require.NoError(t, err)

	req := site.requests[0]
	assert.Contains(t, req.Header.Get("Referer"), "/accounts/login/")
	assert.Equal(t, "tok-login", site.forms[0].Get("csrfmiddlewaretoken"))
	assert.Empty(t, req.Header.Get("X-Requested-With"))
}

func TestNon2xxIsUnexpected(t *testing.T) {
	site := &fakeSite{}
	c, _ := newClient(t, site, "alice", "secret")

	_, err := c.Get(context.Background(), "/broken/")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unexpected))
	assert.Contains(t, err.Error(), "500")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		body string
		want remote.Outcome
	}{
		{"<html>fine</html>", remote.OutcomeOK},
		{"Your username and password didn't match.", remote.OutcomeLoginRejected},
		{"<li>That timesheet already exists</li>", remote.OutcomeTimesheetExists},
		{"", remote.OutcomeOK},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, remote.Classify(tt.body), tt.body)
	}
}
