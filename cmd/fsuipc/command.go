package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	fsuipc "github.com/ehrlich-b/go-fsuipc"
	"github.com/ehrlich-b/go-fsuipc/datarequest"
	"github.com/ehrlich-b/go-fsuipc/helpers"
)

var lvarFormats = []helpers.LVarFormat{
	helpers.LVarDouble, helpers.LVarFloat,
	helpers.LVarInt32, helpers.LVarUint32,
	helpers.LVarInt16, helpers.LVarUint16,
	helpers.LVarInt8, helpers.LVarUint8,
}

func parseLVarFormat(s string) (helpers.LVarFormat, error) {
	for _, f := range lvarFormats {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown L:var format %q", s)
}

// runCommand schedules the command's requests in order and processes them
// as one batch.
func runCommand(cfg *config, c *helpers.Command) error {
	return execute(cfg, c.Requests())
}

func execute(cfg *config, reqs []datarequest.Request) error {
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
	return schedule(s, reqs)
}

func schedule(s *fsuipc.Session, reqs []datarequest.Request) error {
	for _, r := range reqs {
		var err error
		if r.Kind() == datarequest.KindWrite {
			err = s.Write(r.Offset(), r.Size(), r.Buffer())
		} else {
			err = s.Read(r.Offset(), r.Size(), r.Buffer())
		}
		if err != nil {
			return err
		}
	}
	return s.Process()
}

func newLVarCmd(cfg *config) *cobra.Command {
	var (
		offset string
		format string
	)
	parse := func() (uint32, helpers.LVarFormat, error) {
		off, err := parseOffset(offset)
		if err != nil {
			return 0, 0, err
		}
		f, err := parseLVarFormat(format)
		return off, f, err
	}

	cmd := &cobra.Command{
		Use:   "lvar",
		Short: "Read, write or create panel L:vars",
	}
	cmd.PersistentFlags().StringVar(&offset, "offset", "0x66C0", "free offset the value is passed through")
	cmd.PersistentFlags().StringVar(&format, "format", "double", "value format: double, float, int32, uint32, int16, uint16, int8 or uint8")

	get := &cobra.Command{
		Use:   "get NAME",
		Short: "Print the value of an L:var",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, f, err := parse()
			if err != nil {
				return err
			}
			c, err := helpers.LVar{}.Read(args[0], off, f)
			if err != nil {
				return err
			}
			if err := runCommand(cfg, c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(c.Value.Value(), 'g', -1, 64))
			return nil
		},
	}

	var create bool
	set := &cobra.Command{
		Use:     "set NAME VALUE",
		Short:   "Set an L:var",
		Example: `  fsuipc lvar set Landing_Light 1 --format int32`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, f, err := parse()
			if err != nil {
				return err
			}
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}
			build := helpers.LVar{}.Write
			if create {
				build = helpers.LVar{}.Create
			}
			c, err := build(args[0], off, f, v)
			if err != nil {
				return err
			}
			return runCommand(cfg, c)
		},
	}
	set.Flags().BoolVar(&create, "create", false, "create the L:var if it does not exist")

	cmd.AddCommand(get, set)
	return cmd
}

func newLuaCmd(cfg *config) *cobra.Command {
	var param int32
	cmd := &cobra.Command{
		Use:   "lua ACTION PROGRAM",
		Short: "Run, stop or signal a Lua plugin",
		Long: `ACTION is one of run, debug, value, kill, set, clear or toggle.
--param is the ipcPARAM value, or the flag number for set, clear and toggle.
"lua killall" stops every plugin.`,
		Example: `  fsuipc lua run autobrake
  fsuipc lua set autobrake --param 3`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "killall" {
				return execute(cfg, []datarequest.Request{helpers.Lua{}.KillAll()})
			}
			if len(args) != 2 {
				return fmt.Errorf("lua %s needs a program name", args[0])
			}
			actions := map[string]helpers.LuaCommand{
				"run":    helpers.LuaRun,
				"debug":  helpers.LuaDebug,
				"value":  helpers.LuaValue,
				"kill":   helpers.LuaKill,
				"set":    helpers.LuaSet,
				"clear":  helpers.LuaClear,
				"toggle": helpers.LuaToggle,
			}
			action, ok := actions[args[0]]
			if !ok {
				return fmt.Errorf("unknown lua action %q", args[0])
			}
			c, err := helpers.Lua{}.Command(action, args[1], param)
			if err != nil {
				return err
			}
			return runCommand(cfg, c)
		},
	}
	cmd.Flags().Int32Var(&param, "param", 0, "parameter or flag number")
	return cmd
}

func newMacroCmd(cfg *config) *cobra.Command {
	var param int32
	cmd := &cobra.Command{
		Use:     "macro FILE:NAME",
		Short:   "Execute an FSUIPC macro",
		Example: `  fsuipc macro a320:gear_dn`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := helpers.Macro{}.ExecuteRef(args[0], param)
			if err != nil {
				return err
			}
			return runCommand(cfg, c)
		},
	}
	cmd.Flags().Int32Var(&param, "param", 0, "macro parameter")
	return cmd
}
