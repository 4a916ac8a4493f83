package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func transferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer [from] [to] [amount]",
		Short: "Record a transfer between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := cfg.ReadToken()
			if token == "" {
				return errors.New("no hay sesion activa, ejecute login primero")
			}

			cantidad, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("cantidad invalida: %w", err)
			}

			msg, err := api.Transfer(cmd.Context(), token, args[0], args[1], cantidad)
			if err != nil {
				return err
			}

			fmt.Println(msg)
			return nil
		},
	}
}
