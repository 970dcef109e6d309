package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlmeta/internal/cli/config"
	"github.com/leapstack-labs/sqlmeta/pkg/adapter"
	"github.com/leapstack-labs/sqlmeta/pkg/core"
)

var adapterHeaders = []string{"ADAPTER", "PARAM_STYLE", "DEFAULT_SCHEMA", "DEFAULT_PORT"}

// NewAdaptersCommand creates the adapters command.
func NewAdaptersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List the available database adapters",
		Long:  `List every registered adapter with the placeholder style it binds and its defaults.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			rows, err := adapterRows()
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Rows(adapterHeaders, rows)
		},
	}
}

func adapterRows() ([]core.Row, error) {
	names := adapter.ListAdapters()
	rows := make([]core.Row, 0, len(names))
	for _, name := range names {
		adp, err := adapter.NewAdapter(core.AdapterConfig{Type: name}, nil)
		if err != nil {
			return nil, err
		}
		rows = append(rows, core.Row{
			"ADAPTER":        name,
			"PARAM_STYLE":    adp.ParamStyle().String(),
			"DEFAULT_SCHEMA": config.DefaultSchemaForType(name),
			"DEFAULT_PORT":   config.DefaultPortForType(name),
		})
	}
	return rows, nil
}
