package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var (
	flagSSHAddr string
	flagHostKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Snake SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the difficulty menu.
All players share the server's leaderboard. A player is identified by
the SSH user name and, when offered, the public key fingerprint.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses ssh.host_key_path from the config, generating it if needed

Examples:
  snake serve                           # Listen on the configured address
  snake serve --ssh :2222               # Listen on port 2222
  snake serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234

Sessions are silent. A server-only binary can be built without the
cgo sound backend: go build -tags nosound ./cmd/snake`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address host:port (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (default from config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := newApp(logToStderr)
	if err != nil {
		return err
	}
	defer a.close()

	cfg := tui.SSHServerConfigFrom(a.cfg.SSH)
	if flagSSHAddr != "" {
		cfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.HostKeyPath = flagHostKey
	}

	base := tui.Setup{
		Config:  a.cfg,
		Runtime: core.RuntimeConfig{Seed: flagSeed},
		Store:   a.board,
		Stats:   a.local,
		Logger:  a.logger,
	}

	server, err := tui.NewSSHServer(cfg, base)
	if err != nil {
		return err
	}

	fmt.Printf("Starting snake SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
