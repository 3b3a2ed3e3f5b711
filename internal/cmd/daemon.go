package cmd

import (
	"fmt"

	"github.com/adrianmross/regionsel/internal/daemon"
	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/spf13/cobra"
)

func newDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Manage the regionsel daemon",
	}
	cmd.AddCommand(newDaemonServeCmd())
	return cmd
}

func newDaemonServeCmd() *cobra.Command {
	var cfgPath string
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the regionsel daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := daemon.EnsureConfig(cfgPath)
			if err != nil {
				return err
			}
			if httpAddr != "" {
				cfg, err := config.Load(path)
				if err != nil {
					return err
				}
				if cfg.Options.HTTPAddr != httpAddr {
					cfg.Options.HTTPAddr = httpAddr
					if err := config.Save(path, cfg); err != nil {
						return err
					}
				}
			}
			svc, err := daemon.NewService(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Starting daemon with config %s\n", path)
			return svc.Serve()
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&httpAddr, "http", "", "Also serve HTTP on this address (e.g. 127.0.0.1:8787); saved to config")
	return cmd
}
