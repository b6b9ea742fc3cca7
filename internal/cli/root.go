// Package cli holds the cobra command trees for skiff and skiffd.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justyntemme/skiff/internal/config"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/desktop"
	"github.com/justyntemme/skiff/internal/log"
)

// App carries the persistent flags shared by every skiff subcommand.
type App struct {
	ConfigPath string
	Debug      bool
	Trace      string
	Remote     string
	Start      string

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:          "skiff",
		Short:        "A small file manager with a pluggable backend",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the file manager
  skiff

  # Drive a backend running on another machine
  skiff --remote ws://files.lan:7464/ws

  # Print a directory the way the window shows it
  skiff ls ~/Downloads --view column
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(a)
		},
	}
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.loadConfig()
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.ConfigPath, "config", "", "config file (default ~/.config/skiff/config.json)")
	f.BoolVar(&a.Debug, "debug", false, "verbose logging")
	f.StringVar(&a.Trace, "trace", "", "trace categories for debug builds (all, none or APP,MENU,...)")
	cmd.Flags().StringVar(&a.Remote, "remote", "", "websocket address of a skiffd backend")
	cmd.Flags().StringVar(&a.Start, "start", "", "directory to open first")

	cmd.AddCommand(newLsCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	return cmd
}

func (a *App) loadConfig() error {
	if a.Debug {
		log.SetLevel("debug")
	}
	if a.Trace != "" {
		debug.Select(a.Trace)
	}
	m := config.NewManager(a.ConfigPath)
	if err := m.Load(); err != nil {
		return err
	}
	if perr := m.ParseError(); perr != nil {
		fmt.Fprintf(os.Stderr, "skiff: using defaults, %s is invalid: %v\n", m.Path(), perr)
	}
	a.cfg = m.Get()
	return nil
}

// runGUI hands the main goroutine to the window system and never returns.
func runGUI(a *App) error {
	cfg := a.cfg
	if a.Remote != "" {
		cfg.Backend.Mode = "remote"
		cfg.Backend.Address = a.Remote
	}
	if a.Start != "" {
		cfg.Backend.StartPath = a.Start
	}

	desktop.Main(func() {
		code := 0
		if err := runWindow(cfg); err != nil {
			log.Error("skiff: %v", err)
			code = 1
		}
		log.Sync()
		os.Exit(code)
	})
	return nil
}

func runWindow(cfg config.Config) error {
	ctx := context.Background()
	gw, closeBackend, err := openGateway(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	return desktop.Run(ctx, desktop.Options{
		Gateway: gw,
		App:     appOptions(cfg),
		Dark:    cfg.UI.Theme == "dark",
		Hotkeys: cfg.Hotkeys,
	})
}
