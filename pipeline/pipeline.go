package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/vocalsync/align"
	"github.com/cwbudde/vocalsync/audio"
	"github.com/cwbudde/vocalsync/catalog"
	"github.com/cwbudde/vocalsync/config"
	"github.com/cwbudde/vocalsync/dsp/interp"
	"github.com/cwbudde/vocalsync/feature"
	"github.com/cwbudde/vocalsync/pitch"
	"github.com/cwbudde/vocalsync/prep"
	"github.com/cwbudde/vocalsync/separate"
	"github.com/cwbudde/vocalsync/track"
	"github.com/cwbudde/vocalsync/warp"
)

// Recorder stores run history and song offsets. *catalog.Catalog
// implements it.
type Recorder interface {
	RecordRun(ctx context.Context, r catalog.Run) (uuid.UUID, error)
	UpsertSong(ctx context.Context, s catalog.Song) error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSeparator sets the vocal separator. Without one the separate stage
// is skipped.
func WithSeparator(s separate.Separator) Option {
	return func(p *Pipeline) {
		p.separator = s
	}
}

// WithRecorder records every stage run.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pipeline runs stages for song folders.
type Pipeline struct {
	cfg       config.Config
	separator separate.Separator
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// New returns a Pipeline using cfg, which must already be validated.
func New(cfg config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// syncResult summarises the sync stage.
type syncResult struct {
	RefFrames    int
	TargetFrames int
	PathLength   int
	Cost         float64
	Duration     float64 // seconds of warped audio
}

// Run executes stages in order on l. Without stages every stage runs.
func (p *Pipeline) Run(ctx context.Context, l track.Layout, stages ...Stage) error {
	if len(stages) == 0 {
		stages = Stages
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.runStage(ctx, l, st); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) runStage(ctx context.Context, l track.Layout, st Stage) error {
	logger := p.logger.With("song", l.Name(), "stage", string(st))
	logger.Info("stage started")
	started := p.now()

	skipped, err := p.exec(ctx, l, st, logger)
	elapsed := p.now().Sub(started)

	run := catalog.Run{Song: l.Name(), Stage: string(st), Elapsed: elapsed, StartedAt: started}
	switch {
	case err != nil:
		run.Status, run.Error = catalog.StatusFailed, err.Error()
		logger.Error("stage failed", "elapsed", elapsed, "err", err)
	case skipped:
		run.Status = catalog.StatusSkipped
		logger.Info("stage skipped")
	default:
		run.Status = catalog.StatusOK
		logger.Info("stage finished", "elapsed", elapsed)
	}
	p.record(ctx, run, logger)

	if err != nil {
		return &StageError{Stage: st, Elapsed: elapsed, Err: err}
	}
	return nil
}

func (p *Pipeline) record(ctx context.Context, run catalog.Run, logger *slog.Logger) {
	if p.recorder == nil {
		return
	}
	if _, err := p.recorder.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("recording run failed", "err", err)
	}
}

func (p *Pipeline) exec(ctx context.Context, l track.Layout, st Stage, logger *slog.Logger) (skipped bool, err error) {
	switch st {
	case StageSeparate:
		return p.separate(ctx, l, logger)
	case StagePrep:
		return false, p.prep(ctx, l, logger)
	case StageSync:
		res, err := p.syncStage(l, logger)
		if err == nil {
			logger.Info("warped studio vocals", "seconds", res.Duration)
		}
		return false, err
	case StagePitch:
		return false, p.pitchStage(l, logger)
	default:
		return false, fmt.Errorf("pipeline: unknown stage %q", st)
	}
}

func (p *Pipeline) separate(ctx context.Context, l track.Layout, logger *slog.Logger) (bool, error) {
	if p.separator == nil || !p.cfg.Separator.Enabled {
		return true, nil
	}
	if track.Require(l.LiveVocals(), l.StudioVocals()) == nil {
		logger.Debug("isolated vocals already present")
		return true, nil
	}
	return false, separate.Song(ctx, p.separator, l)
}

func (p *Pipeline) prep(ctx context.Context, l track.Layout, logger *slog.Logger) error {
	res, err := prep.Run(l,
		prep.WithThreshold(p.cfg.Prep.ThresholdDB),
		prep.WithBlock(p.cfg.Prep.Block),
		prep.WithTarget(p.cfg.Prep.TargetDB),
		prep.WithHighPass(p.cfg.Prep.HighPassHz),
		prep.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	logger.Info("trim offsets", "live_start", res.LiveStart, "studio_start", res.StudioStart)

	if p.recorder == nil {
		return nil
	}
	return p.recorder.UpsertSong(ctx, catalog.Song{
		Name:        l.Name(),
		Folder:      l.Dir,
		LiveStart:   res.LiveStart,
		StudioStart: res.StudioStart,
	})
}

// syncStage aligns the trimmed studio vocals to the trimmed live vocals
// and writes the warped studio track.
func (p *Pipeline) syncStage(l track.Layout, logger *slog.Logger) (syncResult, error) {
	c := p.cfg.Sync
	if err := track.Require(l.StudioTrimmed(), l.LiveTrimmed()); err != nil {
		return syncResult{}, err
	}
	mode, err := interp.ParseMode(c.Interp)
	if err != nil {
		return syncResult{}, err
	}

	studio, err := audio.Load(l.StudioTrimmed(), c.SampleRate, audio.WithLogger(logger))
	if err != nil {
		return syncResult{}, err
	}
	live, err := audio.Load(l.LiveTrimmed(), c.SampleRate, audio.WithLogger(logger))
	if err != nil {
		return syncResult{}, err
	}

	ref, err := feature.Chroma(studio.Samples, c.SampleRate, c.HopLength, feature.WithFFTSize(c.FFTSize))
	if err != nil {
		return syncResult{}, err
	}
	target, err := feature.Chroma(live.Samples, c.SampleRate, c.HopLength, feature.WithFFTSize(c.FFTSize))
	if err != nil {
		return syncResult{}, err
	}

	res, err := align.Align(ref.Vectors, target.Vectors, align.WithBand(c.Band), align.WithWorkers(c.Workers))
	if err != nil {
		return syncResult{}, err
	}
	logger.Info("aligned", "ref_frames", ref.Len(), "target_frames", target.Len(),
		"path", len(res.Path), "cost", res.Cost)

	warped, err := warp.Warp(studio, res.Path, c.HopLength, warp.WithInterpolation(mode), warp.WithLogger(logger))
	if err != nil {
		return syncResult{}, err
	}
	if err := audio.Save(l.StudioWarped(), warped); err != nil {
		return syncResult{}, err
	}

	return syncResult{
		RefFrames:    ref.Len(),
		TargetFrames: target.Len(),
		PathLength:   len(res.Path),
		Cost:         res.Cost,
		Duration:     warped.Duration(),
	}, nil
}

// pitchStage tracks the trimmed live vocals and the warped studio vocals
// and stores both contours.
func (p *Pipeline) pitchStage(l track.Layout, logger *slog.Logger) error {
	if err := track.Require(l.LiveTrimmed(), l.StudioWarped()); err != nil {
		return err
	}

	var curves [2]track.Curve
	for i, path := range []string{l.LiveTrimmed(), l.StudioWarped()} {
		c, err := p.trackFile(path, logger)
		if err != nil {
			return err
		}
		curves[i] = track.Curve{Times: c.Times, F0: c.F0}
		logger.Info("pitch tracked", "file", path, "frames", c.Len(), "voiced", c.VoicedCount())
	}
	return track.SaveCurves(l, curves[0], curves[1])
}

func (p *Pipeline) trackFile(path string, logger *slog.Logger) (pitch.Contour, error) {
	c := p.cfg.Pitch
	w, err := audio.Load(path, c.SampleRate, audio.WithLogger(logger))
	if err != nil {
		return pitch.Contour{}, err
	}
	return pitch.Track(w.Samples, c.SampleRate,
		pitch.WithHopLength(c.HopLength),
		pitch.WithFrameLength(c.FrameLength),
		pitch.WithRange(c.FMin, c.FMax),
		pitch.WithWorkers(c.Workers),
		pitch.WithLogger(logger),
	)
}
