// go_scribe: blog, LinkedIn post and video summary pipelines.
//
// Serves the web UI on UI_PORT and exposes one MCP tool per pipeline on
// MCP_PORT (HTTP or stdio transport, via go-mcpserver).
package main

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_scribe/internal/agents"
	"github.com/anatolykoptev/go_scribe/internal/bootstrap"
	"github.com/anatolykoptev/go_scribe/internal/engine"
	"github.com/anatolykoptev/go_scribe/internal/scribeserver"
	"github.com/anatolykoptev/go_scribe/internal/webui"
)

var version = "dev"

func main() {
	c := bootstrap.Init()
	mcpPort := env.Str("MCP_PORT", "8893")
	uiPort := env.Str("UI_PORT", "8892")
	driver := agents.NewDriver(c)

	slog.Info("starting go_scribe",
		slog.String("mcp_port", mcpPort),
		slog.String("ui_port", uiPort),
		slog.String("provider", c.LLMProvider),
		slog.String("model", c.ResolvedModel()),
		slog.String("search_backend", c.SearchBackend),
	)

	if uiPort != "" && uiPort != "0" {
		go serveUI(driver, uiPort)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_scribe",
		Version: version,
	}, nil)

	n := scribeserver.RegisterTools(server, driver.Variants, driver, c)
	slog.Info("tools registered", slog.Int("count", n))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_scribe",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func serveUI(driver *agents.Driver, port string) {
	ui, err := webui.New(driver, driver.Variants)
	if err != nil {
		slog.Error("web ui init failed", slog.Any("error", err))
		return
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           ui.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      600 * time.Second,
	}
	slog.Info("web ui listening", slog.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("web ui failed", slog.Any("error", err))
	}
}
