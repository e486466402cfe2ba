// Command bridge runs the host-side half of the USB-HID command pipeline:
// it terminates the primary and auxiliary serial links, frames and
// dispatches commands exactly as the firmware's own main loop would, and
// drives whichever HID target and panic-button source the platform build
// wires in.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/gousb"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"hidbridge/internal/ack"
	"hidbridge/internal/command"
	"hidbridge/internal/config"
	"hidbridge/internal/dispatch"
	"hidbridge/internal/executor"
	"hidbridge/internal/frame"
	"hidbridge/internal/hid"
	"hidbridge/internal/httpapi"
	"hidbridge/internal/interrupt"
	"hidbridge/internal/logsink"
	"hidbridge/internal/panicbutton"
	"hidbridge/internal/serialio"
	"hidbridge/internal/stats"
)

var (
	simulate   = flag.Bool("simulate", false, "run against in-memory HID/button backends instead of real hardware")
	enableHTTP = flag.Bool("http", true, "enable the diagnostic HTTP API")
	tickPeriod = flag.Duration("tick", 2*time.Millisecond, "main loop idle sleep between iterations")
)

// clockStart anchors the monotonic millisecond clock the rest of the
// bridge's internal packages measure time.Duration offsets from.
var clockStart = time.Now()

func now() time.Duration {
	return time.Since(clockStart)
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("bridge: load config: %v", err)
	}

	primary, err := openPrimary(cfg)
	if err != nil {
		log.Fatalf("bridge: open primary port: %v", err)
	}
	defer primary.Close()

	logWriter, err := openLog(cfg)
	if err != nil {
		log.Printf("bridge: open log port: %v (diagnostics go to stderr instead)", err)
		logWriter = os.Stderr
	} else if closer, ok := logWriter.(io.Closer); ok {
		defer closer.Close()
	}

	device, err := openDevice(cfg)
	if err != nil {
		log.Fatalf("bridge: open HID target: %v", err)
	}
	defer device.Close()

	buttonSrc, err := openButton(cfg)
	if err != nil {
		log.Fatalf("bridge: open panic button: %v", err)
	}
	defer buttonSrc.Close()

	sink := logsink.New(logWriter, logsink.Info)
	acks := ack.New(primary)
	queue := &command.Queue{}
	pending := &panicbutton.Pending{}

	exec := executor.New(queue, device, sink, pending)
	servicer := interrupt.New(pending, queue, exec, device, sink, acks)
	reporter := stats.New(now(), queue.Len, exec.TimedActive)
	disp := dispatch.New(queue, sink, acks, reporter)

	go panicbutton.Watch(buttonSrc, pending)

	if *enableHTTP {
		injector := &frameInjector{parser: &frame.Parser{}, disp: disp, reporter: reporter}
		server := httpapi.New(reporter, injector, now)
		go func() {
			if err := server.Run(cfg.HTTPListen); err != nil {
				log.Printf("bridge: http api stopped: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	rx := make(chan byte, 4096)
	go readLoop(primary, rx)

	parser := &frame.Parser{}
	sink.Unconditional("bridge: running (primary=%s log=%s baud=%d)", cfg.PrimaryPort, cfg.LogPort, cfg.BaudRate)

	ticker := time.NewTicker(*tickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			sink.Unconditional("bridge: shutting down")
			return
		case <-ticker.C:
			runIteration(servicer, parser, rx, disp, exec, reporter, sink, acks)
		}
	}
}

// runIteration executes exactly one pass of the cooperative main loop
// described in spec.md §5: service any pending interrupt first, drain
// whatever bytes are already waiting on the primary link, tick the
// executor once, poll the TimedAction deadline, and let the reporter emit
// its periodic block if due. No step here blocks past a channel receive
// that is already known to be ready.
func runIteration(servicer *interrupt.Servicer, parser *frame.Parser, rx <-chan byte, disp *dispatch.Dispatcher, exec *executor.Executor, reporter *stats.Reporter, sink *logsink.Sink, acks *ack.Sink) {
	servicer.ServiceIfPending()

	now := now()
drain:
	for {
		select {
		case b := <-rx:
			payload, perr, event := parser.Feed(b)
			if !event {
				continue
			}
			reporter.RecordPacket()
			if perr != nil {
				reporter.RecordError()
				switch perr.Kind {
				case frame.ErrInvalidLength:
					sink.Logf(logsink.Warn, "frame: INVALID_LENGTH got=%d", perr.Got)
					acks.Send(ack.ParamError)
				case frame.ErrCRCMismatch:
					sink.Logf(logsink.Warn, "frame: CRC_MISMATCH expected=0x%02X received=0x%02X", perr.Expected, perr.Received)
					acks.Send(ack.CRCError)
				}
				continue
			}
			disp.Handle(payload, now)
		default:
			break drain
		}
	}

	exec.Tick(now)
	exec.PollTimedAction(now)

	if report, ok := reporter.Tick(now); ok {
		sink.Unconditional("%s", report)
	}
}

// readLoop is the only goroutine that ever blocks on the primary serial
// link. It exists purely to turn a blocking Read into a channel the main
// loop can drain without blocking itself.
func readLoop(r io.Reader, out chan<- byte) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			out <- buf[i]
		}
		if err != nil {
			if err == io.EOF {
				time.Sleep(time.Millisecond)
				continue
			}
			return
		}
	}
}

// frameInjector lets the HTTP diagnostic API push a raw frame through the
// same parser and dispatcher the primary serial link uses, byte for byte.
type frameInjector struct {
	parser   *frame.Parser
	disp     *dispatch.Dispatcher
	reporter *stats.Reporter
}

func (f *frameInjector) InjectFrame(data []byte) {
	t := now()
	for _, b := range data {
		payload, perr, event := f.parser.Feed(b)
		if !event {
			continue
		}
		f.reporter.RecordPacket()
		if perr != nil {
			f.reporter.RecordError()
			continue
		}
		f.disp.Handle(payload, t)
	}
}

func openPrimary(cfg *config.Config) (io.ReadWriteCloser, error) {
	if *simulate {
		return serialio.NewPipe(), nil
	}
	return serialio.Open(cfg.PrimaryPort)
}

func openLog(cfg *config.Config) (io.Writer, error) {
	if *simulate {
		return os.Stderr, nil
	}
	return serialio.Open(cfg.LogPort)
}

func openDevice(cfg *config.Config) (hid.Device, error) {
	if *simulate {
		return hid.NewRecorder(), nil
	}
	return hid.OpenUSBTarget(gousb.ID(cfg.USBTargetVID), gousb.ID(cfg.USBTargetPID))
}

func openButton(cfg *config.Config) (panicbutton.Source, error) {
	if *simulate {
		return panicbutton.NewSimulated(), nil
	}
	pin := gpioreg.ByName(cfg.ButtonGPIOPin)
	if pin == nil {
		log.Fatalf("bridge: unknown GPIO pin %q", cfg.ButtonGPIOPin)
	}
	return panicbutton.OpenGPIO(pin)
}
