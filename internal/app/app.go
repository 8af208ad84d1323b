package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	_ "todolist/docs"
	"todolist/internal/config"
	"todolist/internal/handlers"
	"todolist/internal/pdf"
	"todolist/internal/realtime"
	"todolist/internal/repositories"
	"todolist/internal/routes"
	"todolist/internal/services"
)

// App is the wired server.
type App struct {
	cfg       *config.Config
	router    *gin.Engine
	db        *sql.DB
	scheduler *services.DigestScheduler
}

// New wires repositories, services and handlers from cfg. Without a
// configured database driver todos live in memory.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	// === Repos ===
	var todoRepo repositories.TodoRepository
	if cfg.Database.Driver == "" {
		log.Printf("[app] no database configured, using in-memory storage")
		todoRepo = repositories.NewMemoryTodoRepository()
	} else {
		db, dialect, err := repositories.NewDB(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		todoRepo = repositories.NewTodoRepository(db, dialect)
		log.Printf("[app] using %s storage", dialect)
	}

	// === Services ===
	hub := realtime.NewTodoHub()
	todoService := services.NewTodoService(todoRepo, hub, cfg.Pagination.DefaultSize, cfg.Pagination.MaxSize)

	var authService services.AuthService
	if cfg.Auth.Enabled() {
		authService = services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Users)
	}

	digestService := services.NewDigestService(todoRepo, notifiers(cfg)...)
	pdfGen := pdf.NewReportGenerator(cfg.Files.RootDir, cfg.Files.FontPath)

	if cfg.Digest.Enabled {
		a.scheduler = services.NewDigestScheduler(time.Local)
		if err := a.scheduler.At(cfg.Digest.At, digestJob(digestService, pdfGen)); err != nil {
			a.Close()
			return nil, fmt.Errorf("schedule digest: %w", err)
		}
		log.Printf("[app] daily digest at %s next=%s", cfg.Digest.At, a.scheduler.NextRun(time.Now()).Format(time.RFC3339))
	}

	// === Handlers ===
	h := routes.Handlers{
		Todos:   handlers.NewTodoHandler(todoService),
		Reports: handlers.NewReportHandler(digestService, pdfGen),
		Events:  handlers.NewEventsHandler(hub),
	}
	if authService != nil {
		h.Auth = handlers.NewAuthHandler(authService)
		h.AuthService = authService
	}

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	routes.SetupRoutes(router, h)
	a.router = router

	return a, nil
}

func notifiers(cfg *config.Config) []services.Notifier {
	var out []services.Notifier
	if cfg.Email.Enabled() {
		out = append(out, services.NewEmailNotifier(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
			cfg.Email.To,
		))
	}
	if cfg.Telegram.Enabled() {
		tg, err := services.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("[app][tg][err] notifier disabled: %v", err)
		} else {
			out = append(out, tg)
		}
	}
	return out
}

// digestJob sends the digest and archives a PDF copy of the metrics.
func digestJob(digest *services.DigestService, pdfGen *pdf.ReportGenerator) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if digest.HasNotifiers() {
			if err := digest.Send(ctx); err != nil {
				log.Printf("[digest][err] %v", err)
			}
		}
		d, err := digest.Build(ctx)
		if err != nil {
			log.Printf("[digest][pdf][err] %v", err)
			return
		}
		path, err := pdfGen.Save(handlers.ReportFromDigest(d, time.Now()))
		if err != nil {
			log.Printf("[digest][pdf][err] %v", err)
			return
		}
		log.Printf("[digest][pdf][ok] saved %s", path)
	}
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.scheduler.Stop(stopCtx); err != nil {
				log.Printf("[app] digest still running at shutdown: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[app] listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Printf("[app] shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		log.Printf("[app] close db: %v", err)
	}
}
