package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asanchezr/bancoseguro/internal/client/cli"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Authenticate and store a session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := cli.GetPassword(os.Stderr)
			if err != nil {
				return err
			}

			token, err := api.Login(cmd.Context(), args[0], string(pw))
			if err != nil {
				return err
			}

			if err := cfg.SaveToken(token); err != nil {
				return err
			}

			fmt.Println("Login exitoso")
			return nil
		},
	}
}
