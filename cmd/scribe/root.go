package main

import (
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_scribe/internal/agents"
	"github.com/anatolykoptev/go_scribe/internal/bootstrap"
	"github.com/anatolykoptev/go_scribe/internal/engine"
)

// commandContext loads configuration once per invocation.
type commandContext struct {
	envFile *string

	once   sync.Once
	config engine.Config
	driver *agents.Driver
}

func newCommandContext(envFile *string) *commandContext {
	return &commandContext{envFile: envFile}
}

func (c *commandContext) ensure() {
	c.once.Do(func() {
		if c.envFile != nil && strings.TrimSpace(*c.envFile) != "" {
			bootstrap.LoadDotEnv(strings.TrimSpace(*c.envFile))
		}
		// Keep pipeline logs off the terminal unless asked for.
		if os.Getenv("LOG_LEVEL") == "" {
			_ = os.Setenv("LOG_LEVEL", "warn")
		}
		c.config = bootstrap.Init()
		c.driver = agents.NewDriver(c.config)
	})
}

func (c *commandContext) cfg() engine.Config {
	c.ensure()
	return c.config
}

func (c *commandContext) runner() *agents.Driver {
	c.ensure()
	return c.driver
}

func newRootCommand() *cobra.Command {
	var envFile string
	ctx := newCommandContext(&envFile)

	rootCmd := &cobra.Command{
		Use:           "scribe",
		Short:         "Research-backed blog posts, LinkedIn posts and video summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Extra .env file to load before .env")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newVariantsCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))

	return rootCmd
}
