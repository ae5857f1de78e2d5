package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"

	fsuipc "github.com/ehrlich-b/go-fsuipc"
	"github.com/ehrlich-b/go-fsuipc/backend"
	"github.com/ehrlich-b/go-fsuipc/datarequest"
	"github.com/ehrlich-b/go-fsuipc/helpers"
	"github.com/ehrlich-b/go-fsuipc/internal/logging"
)

// Environment variables read after .env has been loaded.
const (
	envSim      = "FSUIPC_SIM"
	envBackend  = "FSUIPC_BACKEND"
	envLogLevel = "FSUIPC_LOG_LEVEL"
	envLogFile  = "FSUIPC_LOG_FILE"
	envHTTPAddr = "FSUIPC_HTTP_ADDR"
)

type config struct {
	Backend  string
	Sim      string
	LogLevel string
	LogFile  string
	Verbose  bool
}

// loadEnv reads .env from the working directory when there is one.
func loadEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (c *config) level() string {
	if c.Verbose {
		return "debug"
	}
	return c.LogLevel
}

// logger configures the default logger from the flags.
func (c *config) logger() (*logging.Logger, error) {
	cfg := logging.DefaultConfig()
	level, err := logging.ParseLevel(c.level())
	if err != nil {
		return nil, err
	}
	cfg.Level = level
	logger := logging.NewLogger(cfg)
	logging.SetDefault(logger)
	return logger, nil
}

func (c *config) sim() (fsuipc.SimVersion, error) {
	return fsuipc.ParseSimVersion(c.Sim)
}

// library builds the selected backend. The memory backend is seeded with a
// parked aircraft so every command has something to show.
func (c *config) library() (fsuipc.Library, error) {
	switch strings.ToLower(c.Backend) {
	case "ipc", "":
		return backend.NewIPC(), nil
	case "mem", "memory":
		m := backend.NewMemory(backend.DefaultMemoryConfig())
		if err := seedMemory(m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want ipc or mem)", c.Backend)
	}
}

// session creates a session on the selected backend. The returned close
// function is also registered with atexit and only runs once.
func (c *config) session() (*fsuipc.Session, func(), error) {
	lib, err := c.library()
	if err != nil {
		return nil, nil, err
	}
	options := fsuipc.DefaultOptions()
	options.LogLevel = c.level()
	if c.LogFile != "" {
		options.Log = &fsuipc.LogConfig{
			FileLogging: true,
			FileName:    c.LogFile,
			Severity:    fsuipc.SeverityInfo,
		}
	}
	s := fsuipc.NewSession(lib, options)

	var once sync.Once
	closeSession := func() {
		once.Do(func() {
			if err := s.Close(); err != nil {
				s.Logger().WithError(err).Warn("failed to close session")
			}
		})
	}
	atexit.Register(closeSession)
	return s, closeSession, nil
}

func seedMemory(m *backend.Memory) error {
	var ac helpers.Aircraft
	name := ac.Name()
	lat, lon := ac.Latitude(), ac.Longitude()
	alt := ac.Altitude(true)
	name.SetValue("Cessna Skyhawk G1000 (memory)")
	lat.SetValue(52.5)
	lon.SetValue(13.4)
	alt.SetValue(164)

	com1, nav1 := helpers.COM1().Frequency(), helpers.NAV1().Frequency()
	com1.SetValue(122.8)
	nav1.SetValue(113.9)
	gear := helpers.Gear{}.SetLever(true)

	engines, err := datarequest.NewScalarValue[int16](0x0AEC, 1)
	if err != nil {
		return err
	}
	onGround, err := datarequest.NewScalarValue[int16](0x0366, 1)
	if err != nil {
		return err
	}
	for _, r := range []datarequest.Request{name, lat, lon, alt, com1, nav1, gear, engines, onGround} {
		if err := m.Poke(r.Offset(), r.Buffer()); err != nil {
			return err
		}
	}
	return nil
}
