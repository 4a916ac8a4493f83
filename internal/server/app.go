// Package server initializes and runs the banking server. It wires the
// storage backends, the crypto services and the request dispatcher, handles
// graceful shutdown, and starts the TCP listener plus the background janitor
// for expired nonces and idle sessions.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/asanchezr/bancoseguro/internal/common"
	"github.com/asanchezr/bancoseguro/internal/cryptox"
	"github.com/asanchezr/bancoseguro/internal/logging"
	"github.com/asanchezr/bancoseguro/internal/server/auth"
	"github.com/asanchezr/bancoseguro/internal/server/config"
	"github.com/asanchezr/bancoseguro/internal/server/dispatcher"
	"github.com/asanchezr/bancoseguro/internal/server/ledger"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/repomanager"
	"github.com/asanchezr/bancoseguro/internal/server/sessions"
	"github.com/asanchezr/bancoseguro/internal/server/tcpserver"
)

// Login throttling policy: 5 failures within 5 minutes locks the account
// out for 15 minutes.
const (
	loginMaxAttempts = 5
	loginWindow      = 5 * time.Minute
	loginLockout     = 15 * time.Minute
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	seclogFile io.Closer
	repo       repomanager.RepositoryManager
	dispatcher *dispatcher.Dispatcher
	sessions   *sessions.Manager
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	key, err := c.SharedKey()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	mac, err := cryptox.NewMACEngine(key)
	if err != nil {
		return nil, fmt.Errorf("mac init error: %w", err)
	}

	seclog, seclogFile, err := newSecurityLog(c.SecurityLogFile)
	if err != nil {
		return nil, fmt.Errorf("security log init error: %w", err)
	}

	rm, err := newRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	vault := cryptox.NewPasswordVault(cryptox.DefaultArgon2Params())
	limiter := auth.NewLoginLimiter(loginMaxAttempts, loginWindow, loginLockout)
	authSvc := auth.NewService(rm.Users(rm.Conn()), vault, limiter)

	// Tokens are signed with a per-process random secret, never the shared
	// MAC key: a client holding the shared key must not be able to mint
	// session tokens. Sessions are in-memory anyway, so a restart
	// invalidating outstanding tokens changes nothing.
	tokens := auth.NewTokenIssuer(common.GenerateRandByteArray(common.KeySize), c.TokenValidity)
	ledgerSvc := ledger.NewService(rm.Transactions(rm.Conn()))
	sessionMgr := sessions.NewManager(c.IdleTimeout)

	d := dispatcher.New(mac, rm.Nonces(rm.Conn()), authSvc, tokens, ledgerSvc,
		sessionMgr, c.NonceTTL, logger, seclog)

	return &App{
		config:     c,
		logger:     logger,
		seclogFile: seclogFile,
		repo:       rm,
		dispatcher: d,
		sessions:   sessionMgr,
	}, nil
}

// newRepositoryManager picks the storage backend for the DSN. The literal
// "memory" runs the server on in-process repositories: nothing survives a
// restart, which is fine for demos and local protocol testing.
func newRepositoryManager(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	if dsn == "memory" {
		return repomanager.NewInMemoryRepositoryManager(), nil
	}
	return repomanager.NewPostgresRepositoryManager(ctx, dsn)
}

// newSecurityLog opens the security event sink. An empty path means stderr;
// the returned closer is nil in that case.
func newSecurityLog(path string) (*logging.SecurityLog, io.Closer, error) {
	if path == "" {
		return logging.NewSecurityLog(logging.NewJSONLogger(os.Stderr, slog.LevelInfo)), nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewSecurityLog(logging.NewJSONLogger(f, slog.LevelInfo)), f, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startTCPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := tcpserver.New(app.config.Addr, app.dispatcher, app.logger,
		app.config.IdleTimeout, app.config.MaxConns)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startJanitor periodically removes expired nonce records and idle sessions.
func (app *App) startJanitor(ctx context.Context) {

	ticker := time.NewTicker(app.config.SweepInterval)
	defer ticker.Stop()

	nonceRepo := app.repo.Nonces(app.repo.Conn())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := nonceRepo.Sweep(ctx)
			if err != nil {
				app.logger.Error(ctx, "nonce sweep error", "error", err.Error())
			} else if removed > 0 {
				app.logger.Debug(ctx, "nonce sweep", "removed", removed)
			}
			if purged := app.sessions.PurgeExpired(); purged > 0 {
				app.logger.Debug(ctx, "session purge", "removed", purged)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...", "addr", app.config.Addr)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startTCPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startJanitor(ctx)
	}()

	wg.Wait()

	if err := app.repo.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
	if app.seclogFile != nil {
		_ = app.seclogFile.Close()
	}
}
