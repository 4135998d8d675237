// fe-tune: Tune a CXD2857 frontend and monitor the signal
//
// This tool attaches to a demodulator, tunes one channel and prints the
// lock state and signal metrics until interrupted.
//
// Examples:
//
//	# ISDB-T, physical channel 27 (557.142857 MHz), 6 MHz
//	./fe-tune -s isdbt -f 557143
//
//	# ISDB-S, BS-1 TS 0
//	./fe-tune -s isdbs -f 1049480 -id 0x4010
//
//	# ISDB-S3 via network id redirect, 10 readings
//	./fe-tune -s isdbs -f 1613000 -id 0xB110 -count 10
//
//	# Show the ISDB-T band parameter sets
//	./fe-tune -bands
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/gousb"
	"github.com/herlein/isdbfe/pkg/board"
	"github.com/herlein/isdbfe/pkg/config"
	"github.com/herlein/isdbfe/pkg/frontend"
	"github.com/herlein/isdbfe/pkg/profiles"
	"github.com/herlein/isdbfe/pkg/usbbridge"
	"github.com/quan-to/slog"
	"gopkg.in/yaml.v3"
)

func main() {
	// Parse command line flags
	configPath := flag.String("c", "", "Board configuration file (default: built-in defaults)")
	deviceSel := flag.String("d", "", usbbridge.DeviceFlagUsage())
	verbose := flag.Bool("v", false, "Verbose output")

	system := flag.String("s", "isdbt", "System: isdbt, isdbs or isdbs3")
	freq := flag.Uint("f", 0, "Frequency in kHz (required)")
	bandwidth := flag.Uint("bw", 6, "ISDB-T bandwidth in MHz (6, 7 or 8)")
	streamID := flag.String("id", "0", "ISDB-S TSID or ISDB-S3 stream id")

	interval := flag.Duration("interval", time.Second, "Time between status readings")
	count := flag.Int("count", 0, "Number of readings (0 = until interrupted)")
	listBands := flag.Bool("bands", false, "Print the ISDB-T band parameter sets and exit")
	flag.Parse()

	slog.SetDebug(*verbose)
	slog.SetShowLines(false)

	if *listBands {
		out, err := yaml.Marshal(profiles.List())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	if *freq == 0 {
		fmt.Fprintln(os.Stderr, "Error: Frequency (-f) is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	sys, err := parseSystem(*system)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	id, err := strconv.ParseUint(*streamID, 0, 16)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid stream id %q: %v\n", *streamID, err)
		os.Exit(1)
	}

	req := frontend.TuneRequest{
		System:       sys,
		Bandwidth:    profiles.Bandwidth(*bandwidth),
		FrequencyKHz: uint32(*freq),
		StreamID:     uint16(id),
	}
	if err := req.Resolve().Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
	}
	if *deviceSel != "" {
		cfg.Transport.Device = *deviceSel
	}

	// Create USB context
	usb := gousb.NewContext()
	defer usb.Close()

	b, err := board.Open(usb, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	fe, err := b.Attach(frontend.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer fe.Release()

	if *verbose {
		fmt.Printf("Attached %s via %s\n", fe, b.Name)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("Tuning %s (%s)\n", req.Resolve(), humanize.SIWithDigits(float64(req.FrequencyKHz)*1e3, 3, "Hz"))
	start := time.Now()
	if err := fe.SetFrontend(ctx, req); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Tune failed: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Printf("Tuned in %s, tuner sub-mode %s\n", time.Since(start).Round(time.Millisecond), fe.SubMode())
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for n := 0; *count == 0 || n < *count; n++ {
		flags, metrics, err := fe.ReadStatus(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Fprintf(os.Stderr, "Error: Status read failed: %v\n", err)
			os.Exit(1)
		}
		printStatus(flags, metrics)

		select {
		case <-ctx.Done():
		case <-ticker.C:
			continue
		}
		break
	}

	if err := fe.Sleep(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to put demodulator to sleep: %v\n", err)
	}
}

func parseSystem(s string) (frontend.System, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "isdbt", "t":
		return frontend.SystemISDBT, nil
	case "isdbs", "s":
		return frontend.SystemISDBS, nil
	case "isdbs3", "s3":
		return frontend.SystemISDBS3, nil
	}
	return frontend.SystemUnknown, fmt.Errorf("unknown system %q", s)
}

func printStatus(flags frontend.LockFlags, m frontend.SignalMetrics) {
	line := fmt.Sprintf("%s  lock=%-32s rf=%s", time.Now().Format("15:04:05"), flags, dB(m.RFLevel))
	if m.CNR.Available {
		line += fmt.Sprintf(" cnr=%s", dB(m.CNR))
	}
	if m.CNRRelative.Available {
		line += fmt.Sprintf(" rel=%d%%", m.CNRRelative.Value*100/0xFFFF)
	}
	if m.PER.Available {
		line += fmt.Sprintf(" per=%.2e", float64(m.PER.Value)/1e6)
	}
	fmt.Println(line)
}

func dB(s frontend.Stat) string {
	if !s.Available {
		return "n/a"
	}
	return fmt.Sprintf("%.3fdB", frontend.DeciBel(s.Value))
}
