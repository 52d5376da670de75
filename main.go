package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/user-none/emswp/cli"
	"github.com/user-none/emswp/emu"
	"github.com/user-none/emswp/patch"
	"github.com/user-none/emswp/romfile"
	"github.com/user-none/emswp/seq"
	"github.com/user-none/emswp/session"
	"github.com/user-none/emswp/wav"
)

// options are the command line settings shared by every patch.
type options struct {
	rom     string
	midi    string
	out     string
	seconds float64
	state   bool
	latency int
	verbose bool
}

func main() {
	var opts options
	flag.StringVar(&opts.rom, "rom", "", "wave ROM image, overrides the patch's rom")
	flag.StringVar(&opts.midi, "midi", "", "standard MIDI file played on the patch instruments")
	flag.StringVar(&opts.out, "out", "", "output WAV path (single patch only; default <patch>.wav)")
	flag.Float64Var(&opts.seconds, "seconds", 0, "render length, overrides the patch's seconds")
	flag.BoolVar(&opts.state, "state", false, "write a .state.zst chip snapshot next to each WAV")
	flag.IntVar(&opts.latency, "latency", emu.DefaultConfig().ROMLatency, "wave ROM host read latency in ticks")
	flag.BoolVar(&opts.verbose, "v", false, "log key events and MEG execution")
	play := flag.Bool("play", false, "play the patch through the audio device instead of writing a WAV")
	monitor := flag.Bool("monitor", false, "open a window with live audio and voice meters")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("No patch given. Usage: emswp [flags] <patch.yaml>...")
	}
	if (*play || *monitor || opts.out != "") && len(paths) > 1 {
		log.Fatal("-play, -monitor and -out take a single patch")
	}

	fs := afero.NewOsFs()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *monitor:
		s, err := open(fs, paths[0], &opts)
		if err != nil {
			log.Fatalf("Failed to load patch: %v", err)
		}
		runMonitor(s, paths[0])
	case *play:
		s, err := open(fs, paths[0], &opts)
		if err != nil {
			log.Fatalf("Failed to load patch: %v", err)
		}
		if err := cli.Play(ctx, s); err != nil {
			log.Fatalf("Playback failed: %v", err)
		}
	default:
		if err := renderAll(ctx, fs, paths, &opts); err != nil {
			log.Fatal(err)
		}
	}
}

func runMonitor(s *session.Session, path string) {
	ebiten.SetWindowSize(960, 540)
	ebiten.SetWindowTitle(fmt.Sprintf("%s - %s", emu.Name, filepath.Base(path)))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	runner := cli.NewRunner(s)
	defer runner.Close()

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}

// open loads a patch, its wave ROM and the optional MIDI file.
func open(fs afero.Fs, path string, opts *options) (*session.Session, error) {
	p, err := patch.Load(fs, path)
	if err != nil {
		return nil, err
	}
	if opts.seconds > 0 {
		p.Seconds = opts.seconds
	}

	romPath := opts.rom
	if romPath == "" {
		if p.ROM == "" {
			return nil, fmt.Errorf("%s: no rom in patch and no -rom given", path)
		}
		romPath = p.ROM
		if !filepath.IsAbs(romPath) {
			romPath = filepath.Join(filepath.Dir(path), romPath)
		}
	}
	img, err := romfile.Load(fs, romPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load ROM: %w", err)
	}

	var events []seq.Event
	if opts.midi != "" {
		if events, err = seq.Load(fs, opts.midi, p.SampleRate); err != nil {
			return nil, err
		}
	}

	cfg := emu.DefaultConfig()
	cfg.ROMLatency = opts.latency
	cfg.Verbose = opts.verbose
	return session.New(p, img, events, cfg)
}

// renderAll renders every patch to its WAV file concurrently.
func renderAll(ctx context.Context, fs afero.Fs, paths []string, opts *options) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		g.Go(func() error {
			out := opts.out
			if out == "" {
				out = strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
			}
			s, err := open(fs, path, opts)
			if err != nil {
				return err
			}
			if err := render(ctx, fs, s, out, opts.state); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			hits, misses := s.Chip().ROM().Stats()
			printer := message.NewPrinter(language.English)
			printer.Printf("%s: %d frames (%.2fs) at %d Hz, ROM cache %d hits %d misses\n",
				out, s.Length(), float64(s.Length())/float64(s.SampleRate()), s.SampleRate(), hits, misses)
			return nil
		})
	}
	return g.Wait()
}

func render(ctx context.Context, fs afero.Fs, s *session.Session, out string, state bool) error {
	w, err := wav.Create(fs, out, s.SampleRate())
	if err != nil {
		return err
	}
	if err := s.Render(ctx, 4096, w.WriteSamples); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if state {
		data, err := s.Chip().SaveState()
		if err != nil {
			return err
		}
		path := strings.TrimSuffix(out, filepath.Ext(out)) + ".state.zst"
		if err := romfile.Write(fs, path, data); err != nil {
			return fmt.Errorf("failed to write state: %w", err)
		}
	}
	return nil
}
