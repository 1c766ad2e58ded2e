package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gopress/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Inspect and edit the engine configuration",
		Long: `Config reads and writes the persisted engine settings. With no
arguments it prints every value, with a key it prints that value, and
with a key and a value it updates the file.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0:
				return showConfig(ctx, cmd)
			case 1:
				return getConfig(ctx, cmd, args[0])
			default:
				return setConfig(ctx, cmd, args[0], args[1])
			}
		},
	}
}

func showConfig(ctx *commandContext, cmd *cobra.Command) error {
	cfg, path, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(config.Keys()))
	for _, key := range config.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		if value == "" {
			value = "(unset)"
		}
		rows = append(rows, []string{key, value})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config path: %s\n", path)
	fmt.Fprintln(out, renderTable([]string{"KEY", "VALUE"}, rows, nil))
	return nil
}

func getConfig(ctx *commandContext, cmd *cobra.Command, key string) error {
	cfg, _, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func setConfig(ctx *commandContext, cmd *cobra.Command, key, value string) error {
	cfg, path, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, path)
	return nil
}
