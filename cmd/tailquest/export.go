package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tailquest/tailquest/internal/cli"
)

func newExportCommand() *cobra.Command {
	var (
		format string
		output string
	)
	command := &cobra.Command{
		Use:   "export",
		Short: "Dump the whole user map as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := cli.NewAPIClient(apiBaseURL)
			users, err := client.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("os.Create(%s) > %w", output, err)
				}
				defer func() {
					_ = file.Close()
				}()
				w = file
			}
			return cli.Export(w, users, format)
		},
	}
	command.Flags().StringVar(&format, "format", cli.FormatJSON, "output format (json or yaml)")
	command.Flags().StringVar(&output, "output", "", "write to a file instead of stdout")
	return command
}
