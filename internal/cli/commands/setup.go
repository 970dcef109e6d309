// Package commands implements the sqlmeta subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlmeta/internal/cli/config"
	"github.com/leapstack-labs/sqlmeta/internal/cli/output"
	"github.com/leapstack-labs/sqlmeta/pkg/adapter"
	"github.com/leapstack-labs/sqlmeta/pkg/schema"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext reads the config and logger stored on the command context
// by the root command. Without one the default configuration is loaded.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, ok := config.FromContext(ctx)
	if !ok {
		var err error
		if cfg, err = config.Load(config.LoadOptions{}); err != nil {
			return nil, err
		}
	}

	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// Open connects to the configured target and returns the adapter together
// with a metadata reader over it. The caller closes the adapter.
func (c *CommandContext) Open(ctx context.Context) (adapter.Adapter, *schema.Metadata, error) {
	target := c.Cfg.Target
	if err := target.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid target configuration: %w", err)
	}

	adp, err := adapter.Open(ctx, target.AdapterConfig(), c.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", target.Type, err)
	}

	meta := schema.New(adp,
		schema.WithCatalog(target.Catalog.SchemaCatalog()),
		schema.WithLogger(c.Logger))
	return adp, meta, nil
}
