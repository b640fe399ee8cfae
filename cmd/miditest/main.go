package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"midiclock/clock"
	"midiclock/debug"
	"midiclock/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer gomidi.CloseDriver()

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "run":
		err = runClock(os.Args[2:])
	case "poll":
		pollPorts()
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI clock test tool")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                     - List MIDI output ports")
	fmt.Println("  run <port> <bpm> <secs>  - Send clock to one port and report timing")
	fmt.Println("  poll                     - Watch for output port changes")
}

func listPorts() error {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	outs, err := midi.ListOutPorts(midi.ScanTimeout)
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return err
	}
	for i, name := range midi.PortNames(outs) {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

// timingSink records when each clock pulse left
type timingSink struct {
	clock.Sink

	mu     sync.Mutex
	pulses []time.Time
}

func (s *timingSink) Send(msg []byte) error {
	err := s.Sink.Send(msg)
	if len(msg) == 1 && msg[0] == clock.MsgClock {
		s.mu.Lock()
		s.pulses = append(s.pulses, time.Now())
		s.mu.Unlock()
	}
	return err
}

type report struct {
	pulses    int
	nominal   time.Duration
	mean      time.Duration
	meanError time.Duration
	maxError  time.Duration
}

func analyze(pulses []time.Time, nominal time.Duration) report {
	r := report{pulses: len(pulses), nominal: nominal}
	if len(pulses) < 2 {
		return r
	}
	var sum, errSum time.Duration
	for i := 1; i < len(pulses); i++ {
		d := pulses[i].Sub(pulses[i-1])
		sum += d
		e := time.Duration(math.Abs(float64(d - nominal)))
		errSum += e
		if e > r.maxError {
			r.maxError = e
		}
	}
	n := time.Duration(len(pulses) - 1)
	r.mean = sum / n
	r.meanError = errSum / n
	return r
}

func runClock(args []string) error {
	if len(args) != 3 {
		usage()
		return fmt.Errorf("run needs <port> <bpm> <secs>")
	}
	port, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("port %q: %v", args[0], err)
	}
	bpm, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("bpm %q: %v", args[1], err)
	}
	secs, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("secs %q: %v", args[2], err)
	}

	outs, err := midi.ListOutPorts(midi.ScanTimeout)
	if err != nil {
		return err
	}
	idx, err := midi.SelectOutPorts(midi.PortNames(outs), midi.Selection{Indexes: []int{port}})
	if err != nil {
		return err
	}
	out, err := midi.OpenPortSink(outs[idx[0]])
	if err != nil {
		return err
	}
	sink := &timingSink{Sink: out}

	debug.Logger().SetLevel(logrus.WarnLevel)
	tempo := clock.NewTempo(bpm)
	engine := clock.NewEngine(tempo, clock.NewBeatTracker(), []clock.Sink{sink})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(done)
	}()

	fmt.Printf("Sending clock to %s at %.1f BPM for %.1fs...\n", out.Name(), tempo.BPM(), secs)
	engine.Start()
	time.Sleep(time.Duration(secs * float64(time.Second)))
	engine.Stop()
	cancel()
	<-done
	out.Close()

	sink.mu.Lock()
	r := analyze(sink.pulses, clock.Interval(tempo.BPM()))
	sink.mu.Unlock()

	fmt.Printf("  pulses:     %d\n", r.pulses)
	fmt.Printf("  nominal:    %v\n", r.nominal)
	fmt.Printf("  mean:       %v\n", r.mean)
	fmt.Printf("  mean error: %v\n", r.meanError)
	fmt.Printf("  max error:  %v\n", r.maxError)
	return nil
}

func pollPorts() {
	fmt.Println("Polling for output port changes every 2 seconds...")
	fmt.Println("Connect/disconnect an interface to test. Ctrl+C to exit.")

	w := midi.NewWatcher(2 * time.Second)
	go w.Run(context.Background())
	for ev := range w.Events() {
		fmt.Printf("[%s] %s: %s\n", time.Now().Format("15:04:05"), ev.Type, ev.Name)
	}
}
