package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"myblog/config"
	"myblog/internal/adapter/in/web"
	memstore "myblog/internal/adapter/out/storage/inmemory"
	pgstore "myblog/internal/adapter/out/storage/postgres"
	"myblog/internal/service"
	"myblog/pkg/logger"
	"myblog/pkg/pagination"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const (
	SeedUsername = "demo"
	SeedPassword = "password"

	seedTitle       = "sample"
	seedDescription = "Lorem ipsum dolor sit amet consectetur adipisicing elit. Aut id accusantium quia. " +
		"Itaque, perferendis expedita? Esse illum consectetur harum minus! Aspernatur ad officiis unde " +
		"quaerat velit ea blanditiis quasi ipsum!"
)

type App struct {
	cfg  config.Config
	srv  *http.Server
	pool *pgxpool.Pool

	userStorage service.UserStorage
	postSvc     *service.PostService
	userSvc     *service.UserService
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	var (
		postStorage    service.PostStorage
		commentStorage service.CommentStorage
		userStorage    service.UserStorage
		pool           *pgxpool.Pool
	)

	switch cfg.StorageType {
	case config.StoragePostgres:
		var err error
		pool, err = pgxpool.New(ctx, cfg.Postgres.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		trManager := manager.Must(trmpgx.NewDefaultFactory(pool))

		postStorage = pgstore.NewPostStorage(pool, trmpgx.DefaultCtxGetter, trManager)
		commentStorage = pgstore.NewCommentStorage(pool, trmpgx.DefaultCtxGetter, trManager)
		userStorage = pgstore.NewUserStorage(pool, trmpgx.DefaultCtxGetter)

	case config.StorageMemory:
		db := memstore.NewDB()
		postStorage = memstore.NewPostStorage(db)
		commentStorage = memstore.NewCommentStorage(db)
		userStorage = memstore.NewUserStorage(db)

	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}

	postSvc := service.NewPostService(postStorage)
	commentSvc := service.NewCommentService(commentStorage)
	userSvc := service.NewUserService(userStorage, bcrypt.DefaultCost)

	sessionStore := web.NewFilesystemSessionStore(cfg.Session.Dir, cfg.Session.Secret, cfg.Session.MaxAgeSeconds)
	handler, err := web.NewHandler(postSvc, commentSvc, userSvc, sessionStore)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, fmt.Errorf("web handler: %w", err)
	}

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return logger.WithLogger(context.Background(), log)
		},
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType)
	return &App{
		cfg:         cfg,
		srv:         srv,
		pool:        pool,
		userStorage: userStorage,
		postSvc:     postSvc,
		userSvc:     userSvc,
	}, nil
}

// Seed creates the demo user and, when there are no posts yet, the sample
// post owned by it. Running it twice is harmless.
func (a *App) Seed(ctx context.Context) error {
	log := logger.FromContext(ctx)

	user, err := a.userSvc.Register(ctx, service.RegisterRequest{
		Username: SeedUsername,
		Email:    SeedUsername + "@example.com",
		Password: SeedPassword,
	})
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		if user, err = a.userStorage.GetUserByUsername(ctx, SeedUsername); err != nil {
			return fmt.Errorf("load seed user: %w", err)
		}
	case err != nil:
		return fmt.Errorf("create seed user: %w", err)
	default:
		log.Info("seed user created", "username", user.Username, "user_id", user.ID)
	}

	page, err := a.postSvc.GetPosts(ctx, pagination.PageRequest{Limit: 1})
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}
	if page.Count > 0 {
		log.Info("posts already present, skipping sample post")
		return nil
	}

	post, err := a.postSvc.CreatePost(ctx, service.CreatePostRequest{
		UserID:      user.ID,
		Title:       seedTitle,
		Description: seedDescription,
	})
	if err != nil {
		return fmt.Errorf("create sample post: %w", err)
	}
	log.Info("sample post created", "post_id", post.ID)
	return nil
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shCtx); err != nil {
			log.Error("http server shutdown", "error", err)
		}
		a.Close()
		return nil

	case err := <-errCh:
		a.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases the database pool, if any. The server must be stopped first.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
