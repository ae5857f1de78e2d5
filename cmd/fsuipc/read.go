package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReadCmd(cfg *config) *cobra.Command {
	var (
		offset string
		size   uint32
		format string
	)

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read one offset",
		Example: `  fsuipc read --offset 0x3304 --size 4
  fsuipc read --offset 0x3D00 --size 256 --format string`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			off, err := parseOffset(offset)
			if err != nil {
				return err
			}
			if size == 0 {
				return fmt.Errorf("--size must be positive")
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
				return err
			}
			defer closeSession()

			buf := make([]byte, size)
			if err := s.ReadData(off, size, buf); err != nil {
				return err
			}
			out, err := formatValue(buf, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&offset, "offset", "", "offset, decimal or 0x hex")
	cmd.Flags().Uint32Var(&size, "size", 4, "number of bytes")
	cmd.Flags().StringVar(&format, "format", "hex", "output format: hex, int, float or string")
	cobra.CheckErr(cmd.MarkFlagRequired("offset"))
	return cmd
}
