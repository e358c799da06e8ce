// Command vocalsync aligns a live vocal performance with its studio
// recording and plays back the live pitch curve against the studio one.
//
// Usage:
//
//	vocalsync [flags] <command> [args]
//
// Commands:
//
//	process <song>          run every pipeline stage
//	separate|prep|sync|pitch <song>
//	                        run a single stage
//	play [song]             open the playback shell (default: current song)
//	songs                   list songs with offsets and last run
//	inspect <wav ...>       print duration, rate and levels of WAV files
//
// Examples:
//
//	vocalsync process halo
//	vocalsync -debug sync halo
//	vocalsync -config vocalsync.yaml play
//	vocalsync inspect files/halo/raw/*.wav
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cwbudde/vocalsync/config"
	"github.com/cwbudde/vocalsync/pipeline"
)

var logger = slog.Default()

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func main() {
	configPath := flag.String("config", "vocalsync.yaml", "configuration file (missing file means defaults)")
	library := flag.String("library", "", "song library directory (overrides the configuration)")
	debug := flag.Bool("debug", false, "debug logging with source positions")
	flag.Usage = usage
	flag.Parse()

	initLogger(*debug)

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *library != "" {
		cfg.Library = *library
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, flag.Arg(0), flag.Args()[1:]); err != nil {
		var se *pipeline.StageError
		if errors.As(err, &se) {
			fmt.Fprintf(os.Stderr, "error: stage %q failed after %s: %v\n", se.Stage, se.Elapsed, se.Err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: vocalsync [flags] <command> [args]\n\n")
	fmt.Fprintf(os.Stderr, "Aligns live and studio vocals and plays back their pitch curves.\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  process <song>                    run every pipeline stage\n")
	fmt.Fprintf(os.Stderr, "  separate|prep|sync|pitch <song>   run a single stage\n")
	fmt.Fprintf(os.Stderr, "  play [song]                       open the playback shell\n")
	fmt.Fprintf(os.Stderr, "  songs                             list songs\n")
	fmt.Fprintf(os.Stderr, "  inspect <wav ...>                 print WAV statistics\n")
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	flag.PrintDefaults()
}

func run(ctx context.Context, cfg config.Config, out io.Writer, cmd string, args []string) error {
	switch cmd {
	case "process":
		return runStages(ctx, cfg, args, pipeline.Stages...)
	case "play":
		return runPlay(ctx, cfg, args)
	case "songs":
		return runSongs(ctx, cfg, out)
	case "inspect":
		return runInspect(out, args)
	}

	if st, err := pipeline.ParseStage(cmd); err == nil {
		return runStages(ctx, cfg, args, st)
	}
	return fmt.Errorf("unknown command %q", cmd)
}
