package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"
	gossh "golang.org/x/crypto/ssh"

	"github.com/vovakirdan/tui-snake/internal/audio"
	"github.com/vovakirdan/tui-snake/internal/config"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.snake/ssh_host_ed25519.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// MaxTimeout caps the length of any connection. Zero means no cap.
	MaxTimeout time.Duration
}

// SSHServerConfigFrom maps the ssh config section onto server settings.
func SSHServerConfigFrom(cfg config.SSHConfig) SSHServerConfig {
	return SSHServerConfig{
		Address:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		HostKeyPath: cfg.HostKeyPath,
		IdleTimeout: cfg.IdleTimeout,
		MaxTimeout:  cfg.MaxTimeout,
	}
}

// SSHServer wraps a Wish SSH server. Every connection gets its own
// session model; all of them share the score store in the base setup.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	base   Setup
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, base Setup) (*SSHServer, error) {
	logger := base.logger().With("component", "ssh")

	srv := &SSHServer{
		config: cfg,
		base:   base,
		logger: logger,
	}

	hostKeyPath := config.ExpandHome(cfg.HostKeyPath)
	if hostKeyPath == "" {
		hostKeyPath = config.ExpandHome(filepath.Join("~", ".snake", "ssh_host_ed25519"))
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		// Any key identifies a player; keyless clients play under their user name.
		wish.WithPublicKeyAuth(func(ssh.Context, ssh.PublicKey) bool { return true }),
		wish.WithKeyboardInteractiveAuth(func(ssh.Context, gossh.KeyboardInteractiveChallenge) bool { return true }),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.MaxTimeout > 0 {
		opts = append(opts, wish.WithMaxTimeout(cfg.MaxTimeout))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// PlayerFor derives the player identity of an SSH session. The public key
// fingerprint keeps two people with the same user name apart.
func PlayerFor(user string, key ssh.PublicKey) Player {
	if user == "" {
		user = "guest"
	}
	id := "ssh:" + user
	if key != nil {
		id += ":" + gossh.FingerprintSHA256(key)
	}
	return Player{ID: id, Name: user}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Fatalln(sshSession, "snake needs an interactive terminal: connect with ssh -t")
		return nil, nil
	}

	setup := s.base
	setup.Context = sshSession.Context()
	setup.Player = PlayerFor(sshSession.User(), sshSession.PublicKey())
	setup.Runtime.ScreenW = pty.Window.Width
	setup.Runtime.ScreenH = pty.Window.Height
	setup.Cues = audio.Nop{}
	setup.Logger = s.logger.With("session", uuid.NewString(), "player", setup.Player.Name)

	return NewSessionModel(setup), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
	case err := <-errc:
		s.logger.Error("server error", "error", err)
		return err
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
