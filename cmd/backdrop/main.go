package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/backdrop/internal/config"
	"github.com/1broseidon/backdrop/internal/ipc"
	"github.com/1broseidon/backdrop/internal/logging"
	"github.com/1broseidon/backdrop/internal/platform"
	"github.com/1broseidon/backdrop/internal/runtimepath"
	"github.com/1broseidon/backdrop/internal/wallpaper"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "embed":
		os.Exit(runEmbed(os.Args[2:]))
	case "unembed":
		os.Exit(runUnembed(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: backdrop <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the backdrop daemon (foreground)")
	fmt.Fprintln(w, "  embed               Put a window into wallpaper mode")
	fmt.Fprintln(w, "  unembed             Restore the embedded window")
	fmt.Fprintln(w, "  status              Show daemon and wallpaper status")
	fmt.Fprintln(w, "  monitors            List displays")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'backdrop <command> --help' for command-specific options.")
}

// loadConfig loads the config at path, or the default location when path is
// empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

// clientFlags are shared by the subcommands that talk to the daemon.
type clientFlags struct {
	path    *string
	timeout *time.Duration
}

func addClientFlags(fs *flag.FlagSet) clientFlags {
	return clientFlags{
		path:    fs.String("path", "", "Config file path, to reach a daemon started with the same --path"),
		timeout: fs.Duration("timeout", ipc.DefaultTimeout, "Request timeout"),
	}
}

// newClient builds an IPC client that honours ipc.socket_path of the selected
// config.
func (f clientFlags) newClient() (*ipc.Client, error) {
	res, err := loadConfig(*f.path)
	if err != nil {
		return nil, err
	}
	return f.clientFor(res.Config), nil
}

func (f clientFlags) clientFor(cfg *config.Config) *ipc.Client {
	return ipc.NewClient(cfg.IPC.SocketPath).WithTimeout(*f.timeout)
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: per-user config dir)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: backdrop daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the wallpaper daemon in the foreground. On exit, an embedded")
		fmt.Fprintln(os.Stderr, "window is restored before the daemon stops.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		return 1
	}
	defer logger.Sync()

	desktop := platform.New()
	if !desktop.Supported() {
		logger.Warn("wallpaper mode is unavailable on this platform; serving status only",
			zap.String("platform", runtime.GOOS))
	}

	session := wallpaper.NewSession(desktop, wallpaper.OptionsFromConfig(cfg, logger.Named("wallpaper")))

	socketPath, err := runtimepath.SocketPath(cfg.IPC.SocketPath)
	if err != nil {
		logger.Error("failed to resolve IPC socket path", zap.Error(err))
		return 1
	}
	server := ipc.NewServer(session, socketPath, desktop.Supported(), logger.Named("ipc"))
	if err := server.Start(); err != nil {
		logger.Error("failed to start IPC server", zap.Error(err))
		return 1
	}

	logger.Info("backdrop daemon started",
		zap.String("config", res.File),
		zap.String("socket", server.SocketPath()),
		zap.Stringer("virtual_screen", session.Geometry().VirtualScreenBounds()),
		zap.String("monitor_mode", string(cfg.Monitors.Mode)),
		zap.Duration("locator_max_wait", cfg.Locator.MaxWait()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down backdrop daemon")
	// Stopping first cancels an embed that is still locating the host.
	server.Stop()
	if session.Release() {
		logger.Info("restored embedded window before exit")
	}
	return 0
}
