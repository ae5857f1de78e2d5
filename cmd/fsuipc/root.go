package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cfg := &config{}

	cmd := &cobra.Command{
		Use:   "fsuipc",
		Short: "Talk to a flight simulator through FSUIPC.",
		Long: `fsuipc reads and writes FSUIPC offsets of a running flight ` +
			`simulator. Use --backend mem to try it against an in-process ` +
			`simulated server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := cfg.logger()
			return err
		},
	}

	// .env must be in the environment before flag defaults are computed
	cobra.CheckErr(loadEnv())

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.Backend, "backend", envOr(envBackend, "ipc"), "FSUIPC backend: ipc or mem")
	flags.StringVar(&cfg.Sim, "sim", envOr(envSim, "any"), "simulator to connect to (any, fsx, p3d64, msfs, ...)")
	flags.StringVar(&cfg.LogLevel, "log-level", envOr(envLogLevel, "info"), "log level (trace, debug, info, warn, error)")
	flags.StringVar(&cfg.LogFile, "log-file", envOr(envLogFile, ""), "also log to this rotating file")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")

	cmd.AddCommand(
		newStatusCmd(cfg),
		newReadCmd(cfg),
		newWriteCmd(cfg),
		newMonitorCmd(cfg),
		newLVarCmd(cfg),
		newLuaCmd(cfg),
		newMacroCmd(cfg),
	)
	return cmd
}
