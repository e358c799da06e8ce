package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/cwbudde/vocalsync/audio"
	"github.com/cwbudde/vocalsync/catalog"
	"github.com/cwbudde/vocalsync/config"
	"github.com/cwbudde/vocalsync/dsp/stft"
	"github.com/cwbudde/vocalsync/internal/playout"
	"github.com/cwbudde/vocalsync/internal/shell"
	"github.com/cwbudde/vocalsync/pipeline"
	"github.com/cwbudde/vocalsync/playback"
	"github.com/cwbudde/vocalsync/prep"
	"github.com/cwbudde/vocalsync/separate"
	"github.com/cwbudde/vocalsync/stats/frequency"
	stats "github.com/cwbudde/vocalsync/stats/time"
	"github.com/cwbudde/vocalsync/track"
)

func openCatalog(ctx context.Context, cfg config.Config) *catalog.Catalog {
	cat, err := catalog.Open(ctx, cfg.CatalogPath())
	if err != nil {
		logger.Warn("catalog unavailable", "path", cfg.CatalogPath(), "err", err)
		return nil
	}
	return cat
}

func newPipeline(cfg config.Config, cat *catalog.Catalog) *pipeline.Pipeline {
	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if cfg.Separator.Enabled {
		opts = append(opts, pipeline.WithSeparator(separate.Demucs{
			Command: cfg.Separator.Command,
			Model:   cfg.Separator.Model,
			Stderr:  os.Stderr,
			Logger:  logger,
		}))
	}
	if cat != nil {
		opts = append(opts, pipeline.WithRecorder(cat))
	}
	return pipeline.New(cfg, opts...)
}

func runStages(ctx context.Context, cfg config.Config, args []string, stages ...pipeline.Stage) error {
	if len(args) != 1 {
		return errors.New("expected exactly one song name")
	}
	l := track.Library{Root: cfg.Library}.Song(args[0])

	cat := openCatalog(ctx, cfg)
	if cat != nil {
		defer cat.Close()
	}
	return newPipeline(cfg, cat).Run(ctx, l, stages...)
}

func runPlay(ctx context.Context, cfg config.Config, args []string) error {
	cat := openCatalog(ctx, cfg)
	if cat != nil {
		defer cat.Close()
	}

	song := ""
	if len(args) > 0 {
		song = args[0]
	} else if cat != nil {
		if cur, err := cat.Current(ctx); err == nil {
			song = cur
		}
	}

	engine := playback.NewEngine(
		playback.WithTickPeriod(cfg.Playback.Tick),
		playback.WithScroll(cfg.Playback.Lead, cfg.Playback.Span),
		playback.WithPitchRange(cfg.Playback.PitchMin, cfg.Playback.PitchMax),
		playback.WithLogger(logger),
	)

	lib := track.Library{Root: cfg.Library}
	opts := []shell.Option{
		shell.WithOpener(func(l track.Layout) (playback.Source, error) {
			return playout.Open(l.LiveAudio())
		}),
		shell.WithProcessor(func(ctx context.Context, l track.Layout) error {
			return newPipeline(cfg, cat).Run(ctx, l)
		}),
	}
	if cat != nil {
		opts = append(opts, shell.WithCurrent(cat))
	}
	sh := shell.New(lib, engine, opts...)

	if song != "" {
		if _, err := sh.Execute(ctx, "load "+song); err != nil {
			logger.Warn("could not load song", "song", song, "err", err)
		}
	}

	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".vocalsync_history")
	}
	return sh.Run(ctx, history)
}

func runSongs(ctx context.Context, cfg config.Config, out io.Writer) error {
	names, err := track.Library{Root: cfg.Library}.Songs()
	if err != nil {
		return err
	}

	cat := openCatalog(ctx, cfg)
	if cat != nil {
		defer cat.Close()
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Song\tLive start\tStudio start\tUpdated\tLast run\n")
	fmt.Fprintf(tw, "----\t----------\t------------\t-------\t--------\n")
	for _, name := range names {
		meta, err := track.ReadMetadata(track.Library{Root: cfg.Library}.Song(name).Metadata())
		if err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%v\n", name, err)
			continue
		}

		updated, last := "-", "-"
		if cat != nil {
			if s, err := cat.Song(ctx, name); err == nil {
				updated = humanize.Time(s.UpdatedAt)
			}
			if runs, err := cat.Runs(ctx, name, 1); err == nil && len(runs) > 0 {
				r := runs[0]
				last = fmt.Sprintf("%s %s (%s)", r.Stage, r.Status, humanize.Time(r.StartedAt))
			}
		}
		fmt.Fprintf(tw, "%s\t%.3fs\t%.3fs\t%s\t%s\n", name, meta.LiveStart, meta.StudioStart, updated, last)
	}
	return tw.Flush()
}

func runInspect(out io.Writer, paths []string) error {
	if len(paths) == 0 {
		return errors.New("expected at least one WAV file")
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\tSize\tRate\tDuration\tRMS [dBFS]\tPeak [dBFS]\tLead silence\tCentroid [Hz]\tFlatness\n")
	fmt.Fprintf(tw, "----\t----\t----\t--------\t----------\t-----------\t------------\t-------------\t--------\n")

	an, err := stft.New(2048, 512)
	if err != nil {
		return err
	}

	var failed int
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			failed++
			continue
		}
		w, err := audio.Load(p, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			failed++
			continue
		}

		s := stats.Calculate(w.Samples)
		lead := "-"
		if _, offset, err := prep.TrimSilence(w, prep.DefaultThresholdDB, prep.DefaultBlock); err == nil {
			lead = fmt.Sprintf("%.3fs", offset)
		}
		prof := frequency.Describe(frequency.Average(an.Power(w.Samples)), float64(w.SampleRate))
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.3fs\t%.1f\t%.1f\t%s\t%.0f\t%.3f\n",
			filepath.Base(p), humanize.Bytes(uint64(info.Size())), w.SampleRate,
			w.Duration(), s.RMSdB, s.PeakdB, lead, prof.Centroid, prof.Flatness)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed == len(paths) {
		return fmt.Errorf("no readable WAV files among %d paths", len(paths))
	}
	return nil
}
