package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
	metaconfig "gitlab.com/metakeule/config"

	"midiclock/clock"
	"midiclock/config"
	"midiclock/debug"
	"midiclock/input"
	"midiclock/midi"
	"midiclock/sensehat"
	"midiclock/theme"
	"midiclock/tui"
)

const VERSION = "0.3.0"

var CONFIG = metaconfig.MustNew("midiclock", VERSION, "MIDI clock with adjustable tempo")

var (
	portsArg    = CONFIG.NewString("ports", "output ports: comma separated numbers or name parts", metaconfig.Shortflag('p'), metaconfig.Default(""))
	tempoArg    = CONFIG.NewString("tempo", "initial tempo in BPM (20-300)", metaconfig.Shortflag('t'), metaconfig.Default(""))
	displayArg  = CONFIG.NewString("display", "auto, sensehat, launchpad, terminal or none", metaconfig.Shortflag('d'), metaconfig.Default(""))
	serialArg   = CONFIG.NewString("serial", "serial device for DIN MIDI out", metaconfig.Shortflag('s'), metaconfig.Default(""))
	logArg      = CONFIG.NewString("log", "write debug log to this file", metaconfig.Shortflag('l'), metaconfig.Default(""))
	deadlineArg = CONFIG.NewBool("deadline", "drift-corrected pulse scheduling", metaconfig.Default(false))
	listCmd     = CONFIG.MustCommand("list", "list MIDI and serial output ports")
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n\n", err.Error())
		os.Exit(1)
	}
}

func run() error {
	err := CONFIG.Run()
	if err != nil {
		fmt.Fprint(os.Stderr, CONFIG.Usage())
		return err
	}

	// close all driver ports at the very end
	defer gomidi.CloseDriver()

	if CONFIG.ActiveCommand() == listCmd {
		return listPorts(os.Stdout)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	kind := resolveDisplay(cfg.Display.Kind)
	if err := setupLogging(cfg, kind == config.DisplayTerminal); err != nil {
		return err
	}
	log := debug.For("main")

	sinks := openSinks(cfg)

	var (
		display clock.Display
		source  input.Source
		term    *tui.Display
		opts    = []clock.Option{
			clock.WithTempo(cfg.Clock.Tempo),
			clock.WithDeadline(cfg.Clock.Deadline),
			clock.WithRefresh(cfg.RefreshInterval()),
			clock.WithContinuous(cfg.Display.Continuous),
		}
	)

	switch kind {
	case config.DisplaySenseHat:
		fb, err := sensehat.OpenDisplay()
		if err != nil {
			closeSinks(sinks)
			return err
		}
		display = fb
		opts = append(opts, clock.WithCloser(fb))

		joy, err := sensehat.OpenJoystick()
		if err != nil {
			log.WithError(err).Warn("no joystick, tempo is fixed")
		} else {
			source = joy
			opts = append(opts, clock.WithCloser(joy))
		}

	case config.DisplayLaunch:
		lp, err := midi.OpenLaunchpad()
		if err != nil {
			closeSinks(sinks)
			return err
		}
		display = lp
		source = lp
		opts = append(opts, clock.WithCloser(lp))

	case config.DisplayTerminal:
		term = tui.NewDisplay()
		display = term
		source = term
	}

	mgr, err := clock.NewManager(sinks, display, opts...)
	if err != nil {
		closeSinks(sinks)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr.StartRuntime(ctx)
	defer mgr.Shutdown()

	if source != nil {
		if err := source.Listen(mgr.HandlePress); err != nil {
			log.WithError(err).Warn("no input, tempo is fixed")
		}
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := reloadTempo(mgr, config.Load); err != nil {
					log.WithError(err).Warn("reload failed")
				}
			}
		}
	}()

	watcher := midi.NewWatcher(2 * time.Second)
	go watcher.Run(ctx)
	go func() {
		for ev := range watcher.Events() {
			debug.For("midi").WithField("port", ev.Name).Infof("output port %s", ev.Type)
		}
	}()

	if term != nil {
		return runTerminal(ctx, term, cfg.Display.Palette)
	}

	<-ctx.Done()
	log.Info("interrupted")
	return nil
}

func runTerminal(ctx context.Context, d *tui.Display, palettePath string) error {
	var palette *theme.Palette
	if palettePath != "" {
		p, err := theme.LoadGPL(palettePath)
		if err != nil {
			return err
		}
		palette = p
	}

	p := tea.NewProgram(tui.NewModel(d, theme.New(palette)), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}

// applyFlags lets command line flags override the config file
func applyFlags(cfg *config.Config) error {
	if s := strings.TrimSpace(portsArg.Get()); s != "" {
		cfg.Outputs.Indexes, cfg.Outputs.Ports = parsePorts(s)
	}
	if s := strings.TrimSpace(tempoArg.Get()); s != "" {
		bpm, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.Wrapf(err, "tempo %q", s)
		}
		cfg.Clock.Tempo = bpm
	}
	if s := displayArg.Get(); s != "" {
		cfg.Display.Kind = config.DisplayKind(s)
	}
	if s := serialArg.Get(); s != "" {
		cfg.AddSerial(config.SerialConfig{Device: s})
	}
	if s := logArg.Get(); s != "" {
		cfg.Debug.LogFile = s
	}
	if deadlineArg.Get() {
		cfg.Clock.Deadline = true
	}
	return nil
}

type tempoSetter interface {
	SetBPM(bpm float64) float64
}

// reloadTempo rereads the config file and applies its tempo (SIGHUP)
func reloadTempo(m tempoSetter, load func() (*config.Config, error)) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.SetBPM(cfg.Clock.Tempo)
	return nil
}

// parsePorts splits "1,ESI,3" into port numbers and name parts
func parsePorts(s string) (indexes []int, names []string) {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			indexes = append(indexes, n)
		} else {
			names = append(names, part)
		}
	}
	return indexes, names
}

// resolveDisplay turns "auto" into a concrete kind
func resolveDisplay(kind config.DisplayKind) config.DisplayKind {
	if kind != config.DisplayAuto {
		return kind
	}
	if fb, err := sensehat.OpenDisplay(); err == nil {
		fb.Close()
		return config.DisplaySenseHat
	}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return config.DisplayTerminal
	}
	return config.DisplayNone
}

// setupLogging keeps the terminal view clean by logging to a file
func setupLogging(cfg *config.Config, terminal bool) error {
	path := cfg.Debug.LogFile
	if path == "" && terminal {
		path = debug.DefaultLogPath()
		if cfg.Debug.Level == "" {
			cfg.Debug.Level = "info"
		}
	}
	if path != "" {
		if err := debug.Enable(path); err != nil {
			return err
		}
	}
	return debug.SetLevel(cfg.Debug.Level)
}

// openSinks opens the selected MIDI ports and serial outputs. Failures are
// logged; an empty result is reported by clock.NewManager.
func openSinks(cfg *config.Config) []clock.Sink {
	log := debug.For("midi")
	var sinks []clock.Sink

	ports, err := midi.OpenOutputs(midi.Selection{
		Indexes: cfg.Outputs.Indexes,
		Names:   cfg.Outputs.Ports,
		Prefer:  cfg.Outputs.Prefer,
		Exclude: cfg.Outputs.Exclude,
	}, log)
	if err != nil {
		log.WithError(err).Warn("no MIDI port outputs")
	}
	for _, p := range ports {
		sinks = append(sinks, p)
	}

	for _, sc := range cfg.Outputs.Serial {
		s, err := midi.OpenSerial(sc.Device, sc.Baud)
		if err != nil {
			log.WithError(err).Warn("skip serial output")
			continue
		}
		log.WithField("device", sc.Device).Info("serial output opened")
		sinks = append(sinks, s)
	}
	return sinks
}

func closeSinks(sinks []clock.Sink) {
	for _, s := range sinks {
		s.Close()
	}
}

func listPorts(w io.Writer) error {
	outs, err := midi.ListOutPorts(midi.ScanTimeout)
	if err != nil {
		return err
	}
	names := midi.PortNames(outs)
	picked, _ := midi.SelectOutPorts(names, midi.DefaultSelection())

	fmt.Fprint(w, "\n--- MIDI output ports ---\n\n")
	for i, name := range names {
		mark := " "
		for _, p := range picked {
			if p == i {
				mark = "*"
			}
		}
		fmt.Fprintf(w, "%s[%d] %q\n", mark, i, name)
	}

	serials, err := midi.SerialPorts()
	if err == nil && len(serials) > 0 {
		fmt.Fprint(w, "\n--- serial ports ---\n\n")
		for _, s := range serials {
			fmt.Fprintf(w, " %s\n", s)
		}
	}
	fmt.Fprintln(w, "\n* = used by default")
	return nil
}
