package app

import (
	"context"
	"flag"
	"image/color"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"gocv.io/x/gocv"

	"roitrack/config"
	"roitrack/input"
	"roitrack/logging"
	"roitrack/metrics"
	"roitrack/pipeline"
	"roitrack/recording"
	"roitrack/source"
	"roitrack/tracking"
	"roitrack/tracklog"
	"roitrack/types"
	"roitrack/ui"
)

// ResolveKind returns the tracker a configuration asks for
func ResolveKind(cfg *config.Config) (tracking.Kind, error) {
	if cfg.Mode == types.ModeGoturn {
		return tracking.GOTURN, nil
	}
	return tracking.ParseKind(cfg.Tracker)
}

// Run executes one tracking session: verify inputs, open the video, let the
// user select targets, initialize trackers and play until the end.
func Run(ctx context.Context, cfg *config.Config) error {
	kind, err := ResolveKind(cfg)
	if err != nil {
		return errors.Wrap(err, "invalid selection")
	}
	if !tracking.Available(kind) {
		return errors.Wrapf(tracking.ErrUnavailable, "%s", kind)
	}
	logging.Infof("selected tracker: %s", kind)

	opts := tracking.Options{ModelDir: cfg.ModelDir}
	if kind == tracking.GOTURN {
		if err := tracking.CheckModels(cfg.ModelDir); err != nil {
			return err
		}
	}

	var debug *types.DebugLogger
	if cfg.Debug {
		debug = types.NewDebugLogger(true, cfg.UI.MaxDebugLogs)
		debug.SetAsLogOutput()
		defer debug.RestoreOriginalLogOutput()
	}

	if cfg.TrackLog == "" {
		_, err := run(ctx, cfg, kind, opts, debug, nil)
		return err
	}

	store, runID, err := openTrackLog(cfg, kind)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := run(ctx, cfg, kind, opts, debug, store.ForRun(runID))
	reason := res.Reason.String()
	if err != nil {
		reason = "failed: " + err.Error()
	}
	if ferr := store.FinishRun(runID, res.Frames, reason); ferr != nil {
		logging.Errorf("finishing track log run: %v", ferr)
	}
	return err
}

func openTrackLog(cfg *config.Config, kind tracking.Kind) (*tracklog.Store, uuid.UUID, error) {
	store, err := tracklog.Open(cfg.TrackLog)
	if err != nil {
		return nil, uuid.Nil, errors.Wrap(err, "opening track log")
	}
	runID, err := store.StartRun(cfg.VideoPath, kind.String(), cfg.Mode)
	if err != nil {
		store.Close()
		return nil, uuid.Nil, errors.Wrap(err, "starting track log run")
	}
	logging.Infof("logging tracks to %s (run %s)", cfg.TrackLog, runID)
	return store, runID, nil
}

func run(ctx context.Context, cfg *config.Config, kind tracking.Kind, opts tracking.Options, debug *types.DebugLogger, frameLog pipeline.FrameLog) (pipeline.Result, error) {
	video, err := source.Open(cfg.VideoPath)
	if err != nil {
		return pipeline.Result{}, err
	}
	defer video.Close()

	first := gocv.NewMat()
	defer first.Close()
	if err := video.First(&first); err != nil {
		return pipeline.Result{}, err
	}
	logging.Infof("video loaded and frame capture started")

	window := ui.NewWindow(cfg.Mode.WindowTitle())
	defer window.Close()
	ui.PrintStartupInstructions(cfg.Mode)

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	palette := func() color.RGBA { return ui.RandomColor(rng) }

	selections, err := input.SelectTargets(window, first, cfg.Mode == types.ModeMulti, palette)
	if err != nil {
		return pipeline.Result{}, err
	}

	mt := tracking.NewMultiTracker(kind, tracking.NewFactory(opts))
	defer mt.Close()
	for _, s := range selections {
		if _, err := mt.Add(first, s.Box, s.Color); err != nil {
			return pipeline.Result{}, err
		}
	}
	logging.Infof("tracker was initialized on %d ROI(s)", mt.Len())

	reg := prometheus.NewRegistry()
	m := metrics.New(reg, nil)

	popts := pipeline.Options{
		Mode:     cfg.Mode,
		Label:    kind.String(),
		KeyDelay: cfg.KeyDelay,
		UI:       cfg.UI,
		Observer: m,
		Debug:    debug,
		FrameLog: frameLog,
	}

	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr, reg)
		srv.Start()
		defer func() {
			if err := srv.Shutdown(2 * time.Second); err != nil {
				logging.Errorf("shutting down metrics server: %v", err)
			}
		}()
	}

	if cfg.Record {
		props := video.Props(cfg.Video.FPS)
		rec, err := recording.Start(cfg.RecordDir, props.Width, props.Height, props.FPS, cfg.Video)
		if err != nil {
			logging.Errorf("recording disabled: %v", err)
		} else {
			defer rec.Stop()
			popts.Recorder = rec
		}
	}

	res, err := pipeline.New(video, window, mt, popts).Run(ctx)
	if err != nil {
		return res, err
	}

	s := m.Summary()
	logging.Infof("stopped (%s) after %d frames, %d with track loss; update mean %v, stddev %v, p95 %v",
		res.Reason, res.Frames, res.Lost, s.Mean, s.StdDev, s.P95)
	return res, nil
}

// Main parses the command line for mode, runs a session until it ends or
// the process is interrupted and returns the exit code.
func Main(mode types.Mode, args []string) int {
	cfg, err := config.Parse(mode, args[0], args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		logging.Errorf("%v", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, cfg); err != nil {
		logging.Errorf("%v", err)
		return 1
	}
	return 0
}
