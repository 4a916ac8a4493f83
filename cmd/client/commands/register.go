package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asanchezr/bancoseguro/internal/client/cli"
)

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register [username]",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := cli.GetPassword(os.Stderr)
			if err != nil {
				return err
			}

			msg, err := api.Register(cmd.Context(), args[0], string(pw))
			if err != nil {
				return err
			}

			fmt.Println(msg)
			return nil
		},
	}
}
