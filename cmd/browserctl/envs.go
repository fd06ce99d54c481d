package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/browserkit/pkg/browser"
)

func getCmdEnvs(c *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "envs",
		Short: "List the environments open can navigate to by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}

			envs := browser.NewEnvironments(cfg.Environments)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("Environments"))
			for _, name := range envs.Names() {
				fmt.Fprintln(out, field(name, envs[name]))
			}
			return nil
		},
	}
}
