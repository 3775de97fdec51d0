package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/checklist/internal/app"
	"github.com/thenoetrevino/checklist/internal/config"
	"github.com/thenoetrevino/checklist/internal/database"
	"github.com/thenoetrevino/checklist/internal/server"
	"github.com/thenoetrevino/checklist/internal/session"
)

// TestServer bundles a server with the app and store behind it
type TestServer struct {
	Server *server.Server
	App    *app.App
	Store  database.DataStore
	Config *config.Config
	Logger *slog.Logger
}

// SetupTestServer builds a full server over a fresh store. The store is
// an in-memory MemStore unless one is supplied. Seeding is not run.
func SetupTestServer(t *testing.T, store database.DataStore) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if store == nil {
		store = database.NewMemStore()
	}

	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(store,
		app.WithLogger(logger),
		app.WithMaxUsers(cfg.Auth.MaxUsers),
		app.WithSessions(session.NewRegistry(session.WithTTL(cfg.Session.TTL))),
	)
	t.Cleanup(func() { _ = a.Close() })

	return &TestServer{
		Server: server.NewServer(a, cfg, logger),
		App:    a,
		Store:  store,
		Config: cfg,
		Logger: logger,
	}
}

// ListenOn returns a second server over the same app that binds addr when
// started, for tests of the listen and shutdown path
func ListenOn(t *testing.T, ts *TestServer, addr string) *server.Server {
	t.Helper()
	cfg := *ts.Config
	cfg.Server.Addr = addr
	srv := server.NewServer(ts.App, &cfg, ts.Logger)
	t.Cleanup(func() { _ = srv.Shutdown() })
	return srv
}

// Client returns a new client with no session
func (ts *TestServer) Client(t *testing.T) *Client {
	t.Helper()
	return &Client{t: t, handler: ts.Server.Handler(), cookieName: ts.Config.Session.CookieName}
}

// Client issues requests against the handler and carries the session
// cookie across calls like a browser would
type Client struct {
	t          *testing.T
	handler    http.Handler
	cookieName string
	token      string
}

// Response is a recorded response
type Response struct {
	Code    int
	Body    []byte
	Header  http.Header
	Cookies []*http.Cookie
}

// Token returns the current session token, "" when logged out
func (c *Client) Token() string {
	return c.token
}

// SetToken replaces the session token, e.g. to replay a revoked one
func (c *Client) SetToken(token string) {
	c.token = token
}

// Do sends a request. body is JSON-encoded unless it is nil or a string,
// which is sent verbatim.
func (c *Client) Do(method, path string, body any) *Response {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			c.t.Fatalf("Failed to encode request body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: c.token})
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	result := w.Result()
	defer func() { _ = result.Body.Close() }()

	resp := &Response{
		Code:    w.Code,
		Body:    w.Body.Bytes(),
		Header:  w.Header(),
		Cookies: result.Cookies(),
	}

	for _, cookie := range resp.Cookies {
		if cookie.Name != c.cookieName {
			continue
		}
		if cookie.MaxAge < 0 || cookie.Value == "" {
			c.token = ""
		} else {
			c.token = cookie.Value
		}
	}
	return resp
}

// Cookie returns the named cookie set by the response, or nil
func (r *Response) Cookie(name string) *http.Cookie {
	for _, cookie := range r.Cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// Decode unmarshals the body into v, failing the test on error
func (r *Response) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("Failed to decode response: %v\nBody: %s", err, r.Body)
	}
}

// Message returns the "message" field of a JSON body
func (r *Response) Message(t *testing.T) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	r.Decode(t, &body)
	return body.Message
}

// Register registers username and keeps its session on the client
func (c *Client) Register(username, password string) *Response {
	c.t.Helper()
	return c.Do(http.MethodPost, "/api/auth/register", map[string]string{"username": username, "password": password})
}

// Login logs in and keeps the session on the client
func (c *Client) Login(username, password string) *Response {
	c.t.Helper()
	return c.Do(http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": password})
}
