package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MockShop/internal/resource"
	"MockShop/pkg/kit"
)

const ServiceName = "User Service"

type Server struct {
	API      *resource.API[User, Input]
	Store    resource.Store[User]
	Verifier Verifier
	Tokens   Issuer
	Log      *zap.Logger

	// AuthLimiter throttles POST /users/authenticate; nil disables it.
	AuthLimiter *kit.IPRateLimiter
}

func NewServer(store resource.Store[User], mode resource.UpdateMode, v Verifier, tokens Issuer, log *zap.Logger) *Server {
	return &Server{
		API: &resource.API[User, Input]{
			Kind:  Kind(),
			Store: store,
			Mode:  mode,
			Log:   log,
		},
		Store:    store,
		Verifier: v,
		Tokens:   tokens,
		Log:      log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", kit.Health(ServiceName))

	auth := kit.Handle(s.authenticate)
	if s.AuthLimiter != nil {
		r.With(s.AuthLimiter.Middleware).Post("/users/authenticate", auth)
	} else {
		r.Post("/users/authenticate", auth)
	}
	r.Get("/users/me", kit.Handle(s.me))

	s.API.Mount(r, "/users")

	return r
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResult struct {
	User  Profile `json:"user"`
	Token string  `json:"token"`
}

func (s *Server) authenticate(r *http.Request) kit.Result {
	var req credentials
	if err := kit.DecodeJSON(r, &req); err != nil {
		return kit.Err{Status: http.StatusBadRequest, Message: "Invalid JSON body"}
	}
	if req.Username == "" || req.Password == "" {
		return kit.Err{Status: http.StatusBadRequest, Message: "Username and password are required"}
	}

	page := s.Store.List(r.Context(), func(u User) bool {
		return u.Username == req.Username && u.IsActive
	}, 1)
	if len(page.Items) == 0 {
		s.Log.Info("authentication rejected", zap.String("username", req.Username), zap.String("reason", "unknown or inactive"))
		return invalidCredentials()
	}
	u := page.Items[0]

	if err := s.Verifier.Verify(r.Context(), u, req.Password); err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			s.Log.Error("credential check failed", zap.Error(err), zap.Int("user_id", u.ID))
			return kit.Err{Status: http.StatusInternalServerError, Message: "Internal server error"}
		}
		s.Log.Info("authentication rejected", zap.String("username", req.Username), zap.String("reason", "bad password"))
		return invalidCredentials()
	}

	tok, err := s.Tokens.Issue(u)
	if err != nil {
		s.Log.Error("token issue", zap.Error(err), zap.Int("user_id", u.ID))
		return kit.Err{Status: http.StatusInternalServerError, Message: "Internal server error"}
	}

	return kit.Ok{
		Data:    authResult{User: u.Profile(), Token: tok},
		Message: "Authentication successful",
	}
}

func (s *Server) me(r *http.Request) kit.Result {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return kit.Err{Status: http.StatusUnauthorized, Message: "Missing token"}
	}

	id, err := s.Tokens.Resolve(strings.TrimPrefix(authz, "Bearer "))
	if err != nil {
		return kit.Err{Status: http.StatusUnauthorized, Message: "Invalid token"}
	}

	u, err := s.Store.Get(r.Context(), id)
	if err != nil {
		// the user was deleted after the token was issued
		return kit.Err{Status: http.StatusUnauthorized, Message: "Invalid token"}
	}
	return kit.Ok{Data: u}
}

func invalidCredentials() kit.Result {
	return kit.Err{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
}
