// Package httpapi exposes the INFORM services over HTTP JSON. Every
// protected route extracts the bearer token, verifies it through the session
// codec, and passes the decoded session down to the services, which own the
// policy decisions.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ddanilovs/inform/internal/logging"
	"github.com/ddanilovs/inform/internal/server/auth"
	"github.com/ddanilovs/inform/internal/server/models"
	"github.com/ddanilovs/inform/internal/server/services"
)

// UserService is the slice of the users service the handlers need.
type UserService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	ChangePassword(ctx context.Context, session *auth.Session, currentPassword, newPassword string) (*services.LoginResult, error)
	CreateUser(ctx context.Context, session *auth.Session, input services.CreateUserInput) (*models.User, error)
	ListUsers(ctx context.Context, session *auth.Session) ([]*models.User, error)
	UpdateUser(ctx context.Context, session *auth.Session, id string, input services.UpdateUserInput) (*models.User, error)
	SetUserActive(ctx context.Context, session *auth.Session, id string, active bool) (*models.User, error)
	DeleteUser(ctx context.Context, session *auth.Session, id string) (*models.User, error)
}

type ToolService interface {
	CreateTool(ctx context.Context, session *auth.Session, input services.CreateToolInput) (*models.Tool, error)
	ListTools(ctx context.Context, session *auth.Session) ([]*models.Tool, error)
}

type InformService interface {
	Create(ctx context.Context, session *auth.Session, input services.CreateInformInput) (*models.InformView, error)
	Get(ctx context.Context, session *auth.Session, id string) (*models.InformView, error)
	List(ctx context.Context, session *auth.Session) ([]*models.InformView, error)
	Update(ctx context.Context, session *auth.Session, id string, input services.UpdateInformInput) (*models.InformView, error)
	Delete(ctx context.Context, session *auth.Session, id string) error
}

type AttachmentService interface {
	PresignUpload(ctx context.Context, session *auth.Session) (string, string, error)
	PresignDownload(ctx context.Context, session *auth.Session, key string) (string, error)
}

type Server struct {
	address     string
	logger      logging.Logger
	users       UserService
	tools       ToolService
	informs     InformService
	attachments AttachmentService
	jwtSecret   []byte
}

func NewServer(address string, l logging.Logger, us UserService, ts ToolService, is InformService, as AttachmentService, secretKey string) *Server {
	return &Server{
		address:     address,
		logger:      l.With("module", "httpapi"),
		users:       us,
		tools:       ts,
		informs:     is,
		attachments: as,
		jwtSecret:   []byte(secretKey),
	}
}

// Handler builds the routing table. Split out from Run so tests can drive it
// through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("PUT /api/auth/login", s.withSession(s.handleChangePassword))
	mux.HandleFunc("GET /api/auth/me", s.withSession(s.handleMe))

	mux.HandleFunc("POST /api/informs", s.withSession(s.handleCreateInform))
	mux.HandleFunc("GET /api/informs", s.withSession(s.handleListInforms))
	mux.HandleFunc("GET /api/informs/{id}", s.withSession(s.handleGetInform))
	mux.HandleFunc("PATCH /api/informs/{id}", s.withSession(s.handleUpdateInform))
	mux.HandleFunc("DELETE /api/informs/{id}", s.withSession(s.handleDeleteInform))

	mux.HandleFunc("POST /api/informs/attachments", s.withSession(s.handlePresignUpload))
	mux.HandleFunc("GET /api/informs/attachments/{key...}", s.withSession(s.handlePresignDownload))

	mux.HandleFunc("POST /api/tools", s.withSession(s.handleCreateTool))
	mux.HandleFunc("GET /api/tools", s.withSession(s.handleListTools))

	mux.HandleFunc("POST /api/users", s.withSession(s.handleCreateUser))
	mux.HandleFunc("GET /api/users", s.withSession(s.handleListUsers))
	mux.HandleFunc("PATCH /api/users/{id}", s.withSession(s.handleUpdateUser))
	mux.HandleFunc("PUT /api/users/{id}", s.withSession(s.handleSetUserActive))
	mux.HandleFunc("DELETE /api/users/{id}", s.withSession(s.handleDeleteUser))

	return mux
}

// Run serves until the context is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
