package main

import (
	"github.com/spf13/cobra"

	"github.com/tailquest/tailquest/internal/cli"
)

func newUsersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List every user's progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := cli.NewAPIClient(apiBaseURL)
			users, err := client.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			return cli.RenderUsers(cmd.OutOrStdout(), users)
		},
	}
}
