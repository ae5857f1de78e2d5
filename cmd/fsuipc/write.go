package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWriteCmd(cfg *config) *cobra.Command {
	var (
		offset string
		data   string
		value  int64
		size   int
	)

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write one offset",
		Example: `  fsuipc write --offset 0x0262 --int 1 --size 2
  fsuipc write --offset 0x0262 --hex "01 00"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			off, err := parseOffset(offset)
			if err != nil {
				return err
			}

			var buf []byte
			switch {
			case cmd.Flags().Changed("hex") && cmd.Flags().Changed("int"):
				return fmt.Errorf("--hex and --int are mutually exclusive")
			case cmd.Flags().Changed("hex"):
				buf, err = parseHex(data)
			case cmd.Flags().Changed("int"):
				buf, err = encodeInt(value, size)
			default:
				return fmt.Errorf("one of --hex or --int is required")
			}
			if err != nil {
				return err
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

			if err := s.WriteData(off, uint32(len(buf)), buf); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes at 0x%04X\n", len(buf), off)
			return nil
		},
	}

	cmd.Flags().StringVar(&offset, "offset", "", "offset, decimal or 0x hex")
	cmd.Flags().StringVar(&data, "hex", "", "bytes to write, e.g. \"01 00\"")
	cmd.Flags().Int64Var(&value, "int", 0, "little-endian integer to write")
	cmd.Flags().IntVar(&size, "size", 4, "integer size in bytes for --int")
	cobra.CheckErr(cmd.MarkFlagRequired("offset"))
	return cmd
}
