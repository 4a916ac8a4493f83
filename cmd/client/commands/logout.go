package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := cfg.ReadToken()
			if token != "" {
				if err := api.Logout(cmd.Context(), token); err != nil {
					fmt.Println(err)
				}
			}

			if err := cfg.ClearToken(); err != nil {
				return err
			}

			fmt.Println("Sesion cerrada")
			return nil
		},
	}
}
