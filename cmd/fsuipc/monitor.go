package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	fsuipc "github.com/ehrlich-b/go-fsuipc"
	"github.com/ehrlich-b/go-fsuipc/datarequest"
	"github.com/ehrlich-b/go-fsuipc/helpers"
	"github.com/ehrlich-b/go-fsuipc/internal/logging"
	"github.com/ehrlich-b/go-fsuipc/monitor"
	"github.com/ehrlich-b/go-fsuipc/recorder"
)

// watch is one polled value.
type watch struct {
	name  string
	req   datarequest.Request
	value func() any
}

func newWatch[T any](name string, f *datarequest.Func[T]) watch {
	return watch{name: name, req: f, value: func() any { return f.Value() }}
}

func aircraftWatches() []watch {
	var ac helpers.Aircraft
	var sim helpers.Sim
	var gear helpers.Gear
	return []watch{
		newWatch("aircraft", ac.Name()),
		newWatch("ias_kt", ac.IAS()),
		newWatch("tas_kt", ac.TAS()),
		newWatch("vs_fpm", ac.VerticalSpeed(true)),
		newWatch("latitude", ac.Latitude()),
		newWatch("longitude", ac.Longitude()),
		newWatch("altitude_ft", ac.Altitude(true)),
		newWatch("pitch", ac.Pitch()),
		newWatch("bank", ac.Bank()),
		newWatch("heading", ac.Heading()),
		newWatch("on_ground", ac.OnGround()),
		newWatch("gear_pct", gear.Nose()),
		newWatch("com1_mhz", helpers.COM1().Frequency()),
		newWatch("nav1_mhz", helpers.NAV1().Frequency()),
		newWatch("paused", sim.Paused()),
		newWatch("frame_rate", sim.FrameRate()),
	}
}

// sampler fans polled values out to the log, the HTTP monitor and the
// recorder.
type sampler struct {
	watches  []watch
	mon      *monitor.Monitor
	rec      *recorder.SQLite
	logger   *logging.Logger
	logEvery time.Duration

	mu      sync.Mutex
	lastLog time.Time
}

func (s *sampler) sample(now time.Time) {
	s.mu.Lock()
	logNow := now.Sub(s.lastLog) >= s.logEvery
	if logNow {
		s.lastLog = now
	}
	s.mu.Unlock()

	var fields []any
	for _, w := range s.watches {
		v := w.value()
		s.mon.Update(w.name, v)
		if s.rec != nil {
			err := s.rec.Record(recorder.Sample{Name: w.name, Offset: w.req.Offset(), Value: v, Time: now})
			if err != nil && !errors.Is(err, recorder.ErrClosed) {
				s.logger.WithError(err).Warn("failed to record sample", "name", w.name)
			}
		}
		if logNow {
			fields = append(fields, w.name, v)
		}
	}
	if logNow {
		s.logger.Info("aircraft", fields...)
	}
}

func newMonitorCmd(cfg *config) *cobra.Command {
	var (
		period        time.Duration
		connectPeriod time.Duration
		logEvery      time.Duration
		recordPath    string
		httpAddr      string
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Poll the aircraft state until interrupted",
		Example: `  fsuipc monitor --period 250ms --http :8080
  fsuipc --backend mem monitor --record flight.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sim, err := cfg.sim()
			if err != nil {
				return err
			}
			s, closeSession, err := cfg.session()
			if err != nil {
				return err
			}
			defer closeSession()
			logger := s.Logger()

			smp := &sampler{
				watches:  aircraftWatches(),
				mon:      monitor.New(s),
				logger:   logger,
				logEvery: logEvery,
			}
			if recordPath != "" {
				smp.rec, err = recorder.NewSQLite(recordPath)
				if err != nil {
					return err
				}
				defer smp.rec.Close()
			}
			if httpAddr != "" {
				go func() {
					if err := smp.mon.ListenAndServe(ctx, httpAddr); err != nil {
						logger.WithError(err).Error("monitor server failed", "addr", httpAddr)
					}
				}()
			}

			client := fsuipc.NewClient(s)
			for _, w := range smp.watches {
				client.AddContinualRequest(w.req)
			}
			client.AddListener(&fsuipc.ListenerFuncs{
				Connected: func() {
					logger.Info("connected", "sim", client.FSVersionName(), "fsuipc", s.VersionString())
					client.ProcessRequests(ctx, period, true)
				},
				Disconnected: func() {
					if ctx.Err() != nil {
						return
					}
					logger.Warn("connection lost, waiting for the simulator", "result", client.LastResult().String())
					if err := s.Close(); err != nil {
						logger.WithError(err).Debug("close after connection loss")
					}
					client.WaitForConnection(ctx, sim, connectPeriod)
				},
				Process: func([]datarequest.Request) {
					smp.sample(time.Now())
				},
				Fail: func(result fsuipc.ResultCode) {
					logger.Debug("request cycle failed", "result", result.String())
				},
			})

			logger.Info("waiting for the simulator", "sim", sim.String(), "backend", cfg.Backend)
			client.WaitForConnection(ctx, sim, connectPeriod)
			<-ctx.Done()

			logger.Info("received shutdown signal")
			return disconnect(client)
		},
	}

	cmd.Flags().DurationVar(&period, "period", fsuipc.DefaultProcessPeriod, "polling period")
	cmd.Flags().DurationVar(&connectPeriod, "connect-period", fsuipc.DefaultConnectPeriod, "retry period while waiting for the simulator")
	cmd.Flags().DurationVar(&logEvery, "log-every", 5*time.Second, "how often polled values are logged")
	cmd.Flags().StringVar(&recordPath, "record", "", "record samples into this SQLite database")
	cmd.Flags().StringVar(&httpAddr, "http", envOr(envHTTPAddr, ""), "serve the monitor API on this address, e.g. :8080")
	return cmd
}

// disconnect stops the client, giving up after a few seconds.
func disconnect(client *fsuipc.Client) error {
	done := make(chan error, 1)
	go func() { done <- client.Disconnect() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return errors.New("timed out disconnecting")
	}
}
