package commands

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List your recorded transfers, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := cfg.ReadToken()
			if token == "" {
				return errors.New("no hay sesion activa, ejecute login primero")
			}

			rows, err := api.History(cmd.Context(), token)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tORIGEN\tDESTINO\tCANTIDAD\tFECHA\tVERIFICADO")
			for _, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\t%t\n",
					r.ID, r.CuentaOrigen, r.CuentaDestino, r.Cantidad, r.Timestamp, r.Verificado)
			}
			return w.Flush()
		},
	}
}
