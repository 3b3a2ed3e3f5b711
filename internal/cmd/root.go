package cmd

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "regionsel",
		Short:         "Derive, group and select cloud regions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default project .regionsel.yml else $HOME/.regionsel/config.yml)")
	pf.BoolP("global", "g", false, "Force use of global config (~/.regionsel/config.yml)")
	addKlogFlags(pf)

	cmd.AddCommand(
		newInitCmd(),
		newOptionsCmd(),
		newGroupCmd(),
		newListCmd(),
		newCurrentCmd(),
		newUseCmd(),
		newAddCmd(),
		newSetCmd(),
		newDeleteCmd(),
		newStatusCmd(),
		newExportCmd(),
		newImportCmd(),
		newDaemonCmd(),
		newTuiCmd(),
	)

	return cmd
}

// addKlogFlags exposes klog's flags as long-only flags so "-v" stays free for
// subcommands.
func addKlogFlags(fs *pflag.FlagSet) {
	gfs := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(gfs)
	gfs.VisitAll(func(f *goflag.Flag) {
		pf := pflag.PFlagFromGoFlag(f)
		pf.Shorthand = ""
		if fs.Lookup(pf.Name) == nil {
			fs.AddFlag(pf)
		}
	})
}

// Execute runs the CLI.
func Execute() {
	defer klog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ExecuteDaemon runs the daemon entrypoint.
func ExecuteDaemon() {
	defer klog.Flush()
	cmd := newDaemonServeCmd()
	addKlogFlags(cmd.Flags())
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
