package commands

import (
	"github.com/spf13/cobra"

	"github.com/asanchezr/bancoseguro/internal/client/client"
	"github.com/asanchezr/bancoseguro/internal/client/config"
)

var (
	configPath string
	serverAddr string
	keyB64     string
	keyFile    string

	cfg *config.Config
	api *client.Client
)

func Execute() error {
	root := &cobra.Command{
		Use:           "banco",
		Short:         "Authenticated banking operations over a shared-key channel",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if serverAddr != "" {
				cfg.ServerAddr = serverAddr
			}
			if keyB64 != "" {
				cfg.SharedKeyB64 = keyB64
			}
			if keyFile != "" {
				cfg.SharedKeyFile = keyFile
			}

			key, err := cfg.SharedKey()
			if err != nil {
				return err
			}
			api, err = client.New(cfg.ServerAddr, key, cfg.DialTimeout)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to JSON config file")
	root.PersistentFlags().StringVarP(&serverAddr, "server", "s", "", "server address (host:port)")
	root.PersistentFlags().StringVarP(&keyB64, "key", "k", "", "pre-shared MAC key (base64)")
	root.PersistentFlags().StringVarP(&keyFile, "key-file", "f", "", "path to raw key file")

	root.AddCommand(registerCmd(), loginCmd(), transferCmd(), historyCmd(), logoutCmd())
	return root.Execute()
}
