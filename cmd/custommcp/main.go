// Command custommcp runs a minimal MCP server: JSON-RPC 2.0 over plain
// HTTP with an SSE channel, exposing the built-in echo tool.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/custommcp/mcp-server/pkg/config"
	"github.com/custommcp/mcp-server/pkg/logging"
	"github.com/custommcp/mcp-server/pkg/models"
	"github.com/custommcp/mcp-server/pkg/server"
	"github.com/custommcp/mcp-server/pkg/tools"
)

// CLI describes the command line surface.
type CLI struct {
	Port     int    `arg:"" optional:"" help:"Port to listen on (default 3000)."`
	Config   string `short:"c" help:"Path to a YAML configuration file." type:"existingfile"`
	LogLevel string `name:"log-level" help:"Minimum log level (debug|info|warn|error)."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("custommcp"),
		kong.Description("Minimal MCP server speaking JSON-RPC 2.0 over HTTP with an SSE channel."),
	)
	kctx.FatalIfErrorf(run(&cli))
}

func run(cli *CLI) error {
	cfg := config.Default()
	if cli.Config != "" {
		loaded, err := config.Load(cli.Config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cli.Port != 0 {
		cfg.Port = cli.Port
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}

	logger := logging.New(logging.Level(cfg.LogLevel))

	registry := tools.NewRegistry(logger)
	registry.Register(tools.NewEchoTool())

	srv := server.NewServer(registry, &server.ServerConfig{
		ListenAddr: cfg.ListenAddr(),
		Info: models.Implementation{
			Name:    cfg.ServerName,
			Version: cfg.ServerVersion,
		},
		HeartbeatInterval: time.Duration(cfg.HeartbeatInterval),
		Logger:            logger,
	})
	if err := srv.Start(); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	return srv.Stop()
}
