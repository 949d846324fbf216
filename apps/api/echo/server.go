package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/grade"
	"github.com/mentora/backend/core/lesson"
	"github.com/mentora/backend/core/plan"
	"github.com/mentora/backend/core/schedule"
	"github.com/mentora/backend/core/selection"
)

type (
	ServerDeps struct {
		Conf         *core.Config
		Logger       core.Logger
		SlotSvc      schedule.ServiceInterface
		PlanSvc      plan.ServiceInterface
		GradeSvc     grade.ServiceInterface
		LessonSvc    lesson.ServiceInterface
		SelectionSvc selection.ServiceInterface
		Validate     *validator.Validate
		Translator   ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps       ServerDeps
		app        *echo.Echo
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:       deps,
		app:        echo.New(),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	appJWTConfig.SigningKey = []byte(conf.SecretKey)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerScheduleAPI(v1, jwt, s.deps.SlotSvc, s.deps.PlanSvc, s.deps.Validate, s.deps.Translator)
	registerPlanAPI(v1, jwt, s.deps.PlanSvc, s.deps.Validate, s.deps.Translator)
	registerGradeAPI(v1, jwt, s.deps.GradeSvc, s.deps.Validate, s.deps.Translator)
	registerLessonAPI(v1, jwt, s.deps.LessonSvc)
	registerSelectionAPI(v1, jwt, s.deps.SelectionSvc)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.APIHost); err != nil && err != http.ErrServerClosed {
		s.errCh <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

// signalShutdown is handed to the error handler so a core.shutdown error can
// initiate a graceful stop just like SIGTERM.
func (s *server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Mentora API!")
}
