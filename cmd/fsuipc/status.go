package main

import (
	"fmt"

	"github.com/spf13/cobra"

	fsuipc "github.com/ehrlich-b/go-fsuipc"
	"github.com/ehrlich-b/go-fsuipc/internal/simproc"
)

func newStatusCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List running simulators and print the FSUIPC versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			procs, err := simproc.Find(cmd.Context())
			if err != nil {
				fmt.Fprintf(out, "Simulator processes: unavailable (%v)\n", err)
			} else if len(procs) == 0 {
				fmt.Fprintln(out, "Simulator processes: none")
			} else {
				fmt.Fprintln(out, "Simulator processes:")
				for _, p := range procs {
					fmt.Fprintf(out, "  %-8d %-24s %s\n", p.PID, p.Name, fsuipc.SimVersion(p.Sim))
				}
			}

			sim, err := cfg.sim()
			if err != nil {
				return err
			}
			s, closeSession, err := cfg.session()
			if err != nil {
				return err
			}
			if err := s.Open(sim); err != nil {
				fmt.Fprintf(out, "Connection: %s\n", s.Result().Message())
				return err
			}
			defer closeSession()

			info := s.Info()
			fmt.Fprintf(out, "Connection: open (session %s)\n", info.ID)
			fmt.Fprintf(out, "Simulator: %s\n", info.FSVersion)
			fmt.Fprintf(out, "FSUIPC version: %s\n", info.Version)
			fmt.Fprintf(out, "Library version: %s\n", info.LibVersion)
			return nil
		},
	}
}
