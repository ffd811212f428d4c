package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/catalog"
	"github.com/eduplaybd/eduplay/core/content"
	"github.com/eduplaybd/eduplay/core/student"
	"github.com/eduplaybd/eduplay/core/user"
)

type (
	// ServerDeps holds the services needed by the API server.
	ServerDeps struct {
		Logger     core.Logger
		UserSvc    *user.Service
		CatalogSvc *catalog.Service
		ContentSvc *content.Service
		StudentSvc *student.Service
	}

	Server struct {
		deps ServerDeps
		app  *echo.Echo

		shutdownChan chan struct{}
		errChan      chan error
	}
)

func NewServer(deps ServerDeps) *Server {
	srv := &Server{
		deps:         deps,
		app:          echo.New(),
		shutdownChan: make(chan struct{}, 1),
		errChan:      make(chan error, 1),
	}

	appJWTConfig.SigningKey = []byte(core.Conf.SecretKey)

	srv.app.HideBanner = true
	srv.app.Debug = core.Conf.Debug
	srv.app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger, srv.signalShutdown)

	srv.app.Pre(middleware.RemoveTrailingSlash())
	if !core.Conf.TestMode {
		srv.app.Use(middleware.Logger())
	}
	if !(core.Conf.Debug || core.Conf.TestMode) {
		srv.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	srv.registerRoutes()
	return srv
}

func (srv *Server) registerRoutes() {
	srv.app.GET("/", srv.home)

	v1 := srv.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	// auth & account
	users := v1.Group("/users")
	users.POST("/signup", srv.userSignup)
	users.POST("/login", srv.userLogin)
	users.POST("/token-refresh", srv.userTokenRefresh, jwt)
	users.POST("/password-reset", srv.userPasswordReset)
	users.POST("/password-reset-confirm", srv.userPasswordResetConfirm)
	users.GET("/me", srv.userMe, jwt)

	google := v1.Group("/auth/google")
	google.GET("/login", srv.googleLogin)
	google.GET("/callback", srv.googleCallback)

	// public catalog & contents
	v1.GET("/classes/:standard/subjects", srv.classSubjectList)
	v1.GET("/contents", srv.contentList)
	v1.GET("/contents/:id", srv.contentDetail)

	// student profile
	profile := v1.Group("/profile", jwt)
	profile.GET("", srv.profileDetail)
	profile.PUT("", srv.profileUpdate)
	profile.POST("/avatar", srv.profileAvatarUpload)

	// admin portal
	admin := v1.Group("/admin", jwt, adminMiddleware())
	admin.GET("/users", srv.adminUserList)
	admin.GET("/users/:id", srv.adminUserDetail)
	admin.PUT("/users/:id", srv.adminUserUpdate)
	admin.DELETE("/users/:id", srv.adminUserDelete)
	admin.GET("/grades", srv.adminGradeList)
	admin.POST("/grades", srv.adminGradeCreate)
	admin.DELETE("/grades/:id", srv.adminGradeDelete)
	admin.GET("/subjects", srv.adminSubjectList)
	admin.POST("/subjects", srv.adminSubjectCreate)
	admin.DELETE("/subjects/:id", srv.adminSubjectDelete)
	admin.GET("/chapters", srv.adminChapterList)
	admin.POST("/chapters", srv.adminChapterCreate)
	admin.DELETE("/chapters/:id", srv.adminChapterDelete)
	admin.GET("/contents", srv.adminContentList)
	admin.POST("/contents", srv.adminContentCreate)
	admin.PUT("/contents/:id", srv.adminContentUpdate)
	admin.DELETE("/contents/:id", srv.adminContentDelete)
}

func (srv *Server) home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"app":     core.Conf.AppName,
		"build":   core.Conf.Build,
		"message": "Welcome to " + core.Conf.AppName + " API",
	})
}

// Start starts the server. It blocks until the server stops.
func (srv *Server) Start() {
	addr := core.Conf.Server.Host + ":" + core.Conf.Server.Port
	srv.errChan <- srv.app.Start(addr)
}

// Errors reports server startup/runtime errors.
func (srv *Server) Errors() <-chan error { return srv.errChan }

// ShutdownSignal is closed-ish: it receives when a request handler hit an
// unrecoverable error and the app should shut down.
func (srv *Server) ShutdownSignal() <-chan struct{} { return srv.shutdownChan }

func (srv *Server) signalShutdown() {
	select {
	case srv.shutdownChan <- struct{}{}:
	default:
	}
}

func (srv *Server) Shutdown(ctx context.Context) error { return srv.app.Shutdown(ctx) }

func (srv *Server) Close() error { return srv.app.Close() }

// ServeHTTP makes the server usable directly in httptest.
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	srv.app.ServeHTTP(w, r)
}
