package apitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// Collection names accepted by Insert and Count.
const (
	KindRecords      = "health-records"
	KindReminders    = "reminders"
	KindAppointments = "appointments"
	KindDoctors      = "doctors"
	KindChats        = "chatbot"
	KindGoals        = "health-goals"
	KindWater        = "water-intake"
	KindExercise     = "exercise-log"
	KindSleep        = "sleep-tracker"
)

const (
	userKey    = "user"
	defaultLim = 10
)

// Server is the fake health API.
type Server struct {
	echo   *echo.Echo
	logger *zap.Logger

	mu       sync.Mutex
	users    *collection
	tokens   map[string]string
	data     map[string]*collection
	failures []failure
	requests int
}

type failure struct {
	method  string
	path    string
	status  int
	message string
}

// New creates a fake API mounted under /api.
func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		logger: logger,
		users:  &collection{},
		tokens: make(map[string]string),
		data:   make(map[string]*collection),
	}
	for _, kind := range []string{
		KindRecords, KindReminders, KindAppointments, KindDoctors, KindChats,
		KindGoals, KindWater, KindExercise, KindSleep,
	} {
		s.data[kind] = &collection{}
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Debug("fake api request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})
	e.Use(s.injectFailures)

	s.registerRoutes()
	return s
}

// Start runs a fake API on a local listener for the duration of the test
// and returns it with its base URL.
func Start(t testing.TB) (*Server, string) {
	t.Helper()
	s := New(zaptest.NewLogger(t))
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts.URL + "/api"
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// AddUser registers an account directly and returns it with a valid token.
func (s *Server) AddUser(name, email, password string, role v1.Role) (v1.User, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users.insert(doc{
		"name":     name,
		"email":    strings.ToLower(email),
		"password": password,
		"role":     string(role),
	})
	return toUser(u), s.issueToken(u.id())
}

// Insert stores a document owned by ownerID and returns its ID. Fields may
// set createdAt or any date field to control ordering in reports.
func (s *Server) Insert(kind, ownerID string, fields map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := doc(fields).clone()
	if ownerID != "" {
		d["userId"] = ownerID
	}
	return s.data[kind].insert(d).id()
}

// Count returns how many documents of kind are stored.
func (s *Server) Count(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data[kind].docs)
}

// RevokeTokens invalidates every issued token, as if all sessions expired.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// FailNext makes the next request matching method and path (relative to
// /api) fail with status and message. An empty method matches any.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, path: path, status: status, message: message})
}

// Requests returns how many requests reached the server.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) issueToken(userID string) string {
	token := uuid.NewString()
	s.tokens[token] = userID
	return token
}

func (s *Server) injectFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		path := strings.TrimPrefix(req.URL.Path, "/api")

		s.mu.Lock()
		s.requests++
		var hit *failure
		for i, f := range s.failures {
			if (f.method == "" || f.method == req.Method) && f.path == path {
				hit = &f
				s.failures = append(s.failures[:i], s.failures[i+1:]...)
				break
			}
		}
		s.mu.Unlock()

		if hit != nil {
			return fail(c, hit.status, hit.message)
		}
		return next(c)
	}
}

// authenticate resolves the bearer token to a user.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fail(c, http.StatusUnauthorized, "No token, authorization denied")
		}

		s.mu.Lock()
		u := s.users.get(s.tokens[token])
		s.mu.Unlock()
		if u == nil {
			return fail(c, http.StatusUnauthorized, "Token is not valid")
		}

		c.Set(userKey, u)
		c.Set("token", token)
		return next(c)
	}
}

func (s *Server) adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if current(c).str("role") != string(v1.RoleAdmin) {
			return fail(c, http.StatusForbidden, "Admin access required")
		}
		return next(c)
	}
}

func current(c echo.Context) doc {
	u, _ := c.Get(userKey).(doc)
	return u
}

type envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
}

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Success: false, Message: message})
}

func toUser(d doc) v1.User {
	u := v1.User{
		ID:    d.id(),
		Name:  d.str("name"),
		Email: d.str("email"),
		Role:  v1.Role(d.str("role")),
		Phone: d.str("phone"),
	}
	u.DateOfBirth = d.str("dateOfBirth")
	u.Gender = d.str("gender")
	u.Address = d.str("address")
	if t, err := time.Parse(time.RFC3339Nano, d.str("createdAt")); err == nil {
		u.CreatedAt = t
	}
	return u
}
