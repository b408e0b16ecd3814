// Package app builds the client runtime once per process and owns its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"
	"golang.org/x/sync/errgroup"

	"github.com/ShubhamP528/RentManagement-frontend/internal/config"
	"github.com/ShubhamP528/RentManagement-frontend/internal/gateway"
	"github.com/ShubhamP528/RentManagement-frontend/internal/handler"
	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
	"github.com/ShubhamP528/RentManagement-frontend/internal/navigation"
	"github.com/ShubhamP528/RentManagement-frontend/internal/notify"
	"github.com/ShubhamP528/RentManagement-frontend/internal/queue"
	"github.com/ShubhamP528/RentManagement-frontend/internal/redis"
	"github.com/ShubhamP528/RentManagement-frontend/internal/service"
	"github.com/ShubhamP528/RentManagement-frontend/internal/session"
	"github.com/ShubhamP528/RentManagement-frontend/internal/tokenstore"
	transporthttp "github.com/ShubhamP528/RentManagement-frontend/internal/transport/http"
	"github.com/ShubhamP528/RentManagement-frontend/internal/worker"
)

// App is the explicit context every screen and command shares.
type App struct {
	Config     *config.Config
	Tokens     *tokenstore.Store
	Nav        *navigation.Handle
	Gateway    *gateway.Gateway
	Services   *service.Services
	Session    *session.Manager
	Bus        evbus.Bus
	Displayer  *notify.LogDisplayer
	Dispatcher *notify.Dispatcher

	// set only when REDIS_URL is configured
	Redis     *redis.Client
	Publisher *queue.RedisPublisher

	handler    *worker.Handler
	foreground atomic.Bool

	mu    sync.Mutex
	stack *navigation.Stack
}

// New wires the runtime. The navigation handle starts detached; call Mount
// once the session is known.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Bus: evbus.New()}

	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.Redis = client
		a.Publisher = queue.NewPublisher(client.Client, cfg.PushStream)
	}

	deps := tokenstore.Dependencies{}
	if a.Redis != nil {
		deps.Redis = a.Redis.Client
	}
	tokens, err := tokenstore.New(ctx, tokenstore.Config{
		Driver:   cfg.TokenStoreDriver,
		Path:     cfg.TokenStorePath,
		DSN:      cfg.TokenStoreDSN,
		RedisURL: cfg.RedisURL,
	}, deps)
	if err != nil {
		a.closeRedis()
		return nil, fmt.Errorf("open token store: %w", err)
	}
	a.Tokens = tokens

	a.Nav = navigation.NewHandle()
	a.Gateway = gateway.New(cfg.APIEndpoint, cfg.HTTPTimeout, tokens, a.Nav)
	a.Services = service.New(a.Gateway, cfg.AppVersionEndpoint, cfg.AppVersion)
	a.Session = session.NewManager(tokens, a.Services.Auth, a.Bus)
	a.Gateway.OnInvalidated(a.Session.Logout)

	a.Displayer = notify.NewLogDisplayer()
	a.Dispatcher = notify.NewDispatcher(a.Displayer, a.Nav, notify.Config{ReadyDelay: cfg.NavReadyDelay})
	a.handler = worker.NewHandler(a.Dispatcher, a)

	log.Printf("[App] Ready: api=%s store=%s redis=%t", cfg.APIEndpoint, tokens.Backend(), a.Redis != nil)
	return a, nil
}

// SetForeground records whether the app is active.
func (a *App) SetForeground(active bool) {
	a.foreground.Store(active)
}

// Foreground reports whether the app is active.
func (a *App) Foreground() bool {
	return a.foreground.Load()
}

// Mount attaches a fresh navigation stack rooted at the route the session
// selects, as the home stack does once loading ends.
func (a *App) Mount() *navigation.Stack {
	stack := navigation.NewStack(navigation.InitialRoute(a.Session.Snapshot()))
	a.mu.Lock()
	a.stack = stack
	a.mu.Unlock()
	a.Nav.Attach(stack)
	return stack
}

// Unmount detaches the navigation stack.
func (a *App) Unmount() {
	a.Nav.Detach()
	a.mu.Lock()
	a.stack = nil
	a.mu.Unlock()
}

// Stack returns the mounted stack, or nil.
func (a *App) Stack() *navigation.Stack {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stack
}

// Subscribe calls fn on every session transition.
func (a *App) Subscribe(fn func(model.Session)) error {
	return a.Bus.SubscribeAsync(session.EventChanged, fn, true)
}

// Sink is where the push receiver sends relayed pushes: the redis stream
// when configured, otherwise straight to the dispatcher.
func (a *App) Sink() handler.Sink {
	if a.Publisher != nil {
		return streamSink{pub: a.Publisher, stream: a.Config.PushStream}
	}
	return a.handler
}

// RunPush runs the dispatcher loop, the stream workers when redis is
// configured, and the push receiver until ctx is done.
func (a *App) RunPush(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.Redis != nil {
		cfg := worker.DefaultManagerConfig()
		cfg.Stream = a.Config.PushStream
		manager := worker.NewManager(queue.NewConsumer(a.Redis.Client), a.handler, cfg)
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("start push workers: %w", err)
		}
		g.Go(func() error {
			<-ctx.Done()
			manager.Stop()
			return nil
		})
	}

	g.Go(func() error { return a.Dispatcher.Run(ctx) })

	if a.Config.PushRelaySecret == "" {
		log.Printf("[App] PUSH_RELAY_SECRET not set, push receiver disabled")
	} else {
		router := transporthttp.NewRouter(transporthttp.RouterConfig{
			PushHandler: handler.NewPushHandler(a.Sink()),
			RelaySecret: a.Config.PushRelaySecret,
		})
		server := transporthttp.NewServer(a.Config.PushListenAddr, router)
		g.Go(func() error { return server.Run(ctx) })
	}

	return g.Wait()
}

// Close releases the token store and redis.
func (a *App) Close() error {
	var errs []error
	if a.Tokens != nil {
		if err := a.Tokens.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.closeRedis(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeRedis() error {
	if a.Redis == nil {
		return nil
	}
	err := a.Redis.Close()
	a.Redis = nil
	return err
}

type streamSink struct {
	pub    queue.Publisher
	stream string
}

func (s streamSink) HandleEvent(ctx context.Context, event queue.PushEvent) error {
	_, err := s.pub.Publish(ctx, s.stream, event)
	return err
}
