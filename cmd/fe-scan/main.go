// fe-scan is an ISDB channel scanner for CXD2857 frontends
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/gousb"
	"github.com/herlein/isdbfe/pkg/board"
	"github.com/herlein/isdbfe/pkg/config"
	"github.com/herlein/isdbfe/pkg/frontend"
	"github.com/herlein/isdbfe/pkg/scanner"
	"github.com/herlein/isdbfe/pkg/usbbridge"
	"github.com/quan-to/slog"
)

var (
	configPath = flag.String("c", "", "Board configuration file (default: built-in defaults)")
	scanFile   = flag.String("f", "", "Scan file (YAML); overrides -plan and -ch")
	plans      = flag.String("plan", "uhf", "Comma separated channel plans: uhf, bs, nd")
	chans      = flag.String("ch", "", "Comma separated extra channels (e.g. UHF27,BS1/0x4010)")
	continuous = flag.Bool("loop", false, "Keep scanning until interrupted")
	deviceSel  = flag.String("d", "", usbbridge.DeviceFlagUsage())
	verbose    = flag.Bool("v", false, "Verbose output - show every channel")
	quiet      = flag.Bool("q", false, "Quiet mode - only show locked channels")
	csvOut     = flag.String("csv", "", "Output CSV file for scan results")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "ISDB-T / ISDB-S channel scanner\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                          # Scan UHF 13-62\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -plan bs,nd              # Scan BS and CS transponders\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -plan \"\" -ch BS1/0xB110 # Single ISDB-S3 stream\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -loop -csv scan.csv      # Track channels over time\n", os.Args[0])
	}
	flag.Parse()

	slog.SetDebug(*verbose)
	slog.SetShowLines(false)

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func scanConfig() (*scanner.ScanConfig, error) {
	if *scanFile != "" {
		file, err := scanner.LoadConfigFile(*scanFile)
		if err != nil {
			return nil, err
		}
		return file.ToScanConfig()
	}

	file := &scanner.ConfigFile{Version: scanner.ConfigVersion, Smoothing: scanner.SmoothingYAML{Enabled: true}}
	for _, p := range strings.Split(*plans, ",") {
		if p = strings.TrimSpace(p); p != "" {
			file.Plans = append(file.Plans, p)
		}
	}
	for _, c := range strings.Split(*chans, ",") {
		if c = strings.TrimSpace(c); c != "" {
			file.Channels = append(file.Channels, c)
		}
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return file.ToScanConfig()
}

func run() error {
	scanCfg, err := scanConfig()
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		if cfg, err = config.LoadFromFile(*configPath); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
	}
	if *deviceSel != "" {
		cfg.Transport.Device = *deviceSel
	}

	usb := gousb.NewContext()
	defer usb.Close()

	b, err := board.Open(usb, cfg)
	if err != nil {
		return fmt.Errorf("failed to open board: %w", err)
	}
	defer b.Close()

	fe, err := b.Attach(frontend.Options{})
	if err != nil {
		return err
	}
	defer fe.Release()

	fmt.Printf("Connected to: %s\n", b.Name)

	scanCfg.OnChannelFound = func(info *scanner.ChannelInfo) {
		if *continuous {
			fmt.Printf("FOUND: %s\n", info.Channel)
		}
	}
	scanCfg.OnChannelLost = func(info *scanner.ChannelInfo) {
		fmt.Printf("LOST:  %s (last seen %s)\n", info.Channel, humanize.Time(info.LastSeen))
	}

	sc, err := scanner.New(fe, scanCfg)
	if err != nil {
		return err
	}

	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Channels:     %d\n", len(scanCfg.Channels))
	fmt.Printf("  Lock timeout: %s\n", scanCfg.LockTimeout)
	if *csvOut != "" {
		fmt.Printf("  CSV Output:   %s\n", *csvOut)
	}
	fmt.Println()

	// Set up CSV output if requested
	var csvWriter *bufio.Writer
	if *csvOut != "" {
		csvFile, err := os.Create(*csvOut)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		defer csvFile.Close()
		csvWriter = bufio.NewWriter(csvFile)
		defer csvWriter.Flush()
		fmt.Fprintln(csvWriter, "timestamp_ms,channel,frequency_khz,locked,lock_ms,rf_mdb,cnr_mdb,per_ppm")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !*quiet {
		fmt.Println(" Channel      | Frequency      | Lock                             | RF (dB)  | CNR (dB)")
		fmt.Println("--------------+----------------+----------------------------------+----------+---------")
	}

	results := make(chan *scanner.ScanResult, len(scanCfg.Channels))
	done := make(chan error, 1)
	if *continuous {
		go func() { done <- sc.ScanContinuous(ctx, results) }()
	} else {
		go func() {
			cycle, err := sc.ScanOnce(ctx)
			for _, r := range cycle {
				results <- r
			}
			close(results)
			done <- err
		}()
	}

	scanned := 0
	for r := range results {
		scanned++
		if csvWriter != nil {
			fmt.Fprintf(csvWriter, "%d,%s,%d,%t,%d,%s,%s,%s\n", r.Timestamp.UnixMilli(), r.Channel.Name,
				r.Channel.FrequencyKHz, r.Locked, r.LockTime.Milliseconds(), r.Metrics.RFLevel, r.Metrics.CNR, r.Metrics.PER)
		}
		printResult(r)
	}
	if err := <-done; err != nil && ctx.Err() == nil {
		return err
	}

	if err := fe.Sleep(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to put demodulator to sleep: %v\n", err)
	}

	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Scanned: %s channel tunes\n", humanize.Comma(int64(scanned)))
	all := sc.GetAllChannels()
	fmt.Printf("Locked:  %d channel(s)\n", len(all))
	for _, info := range all {
		fmt.Printf("  %-12s %s  max CNR %s dB  seen %d time(s)\n", info.Channel.Name,
			humanize.SIWithDigits(float64(info.Channel.FrequencyKHz)*1e3, 3, "Hz"), dB(info.MaxCNR), info.DetectionCount)
	}
	return nil
}

func printResult(r *scanner.ScanResult) {
	if r.Err != nil {
		if !*quiet {
			fmt.Printf(" %-12s | error: %v\n", r.Channel.Name, r.Err)
		}
		return
	}
	if *quiet && !r.Locked {
		return
	}
	if !*verbose && !*quiet && !r.Locked {
		return
	}
	fmt.Printf(" %-12s | %14s | %-32s | %8s | %8s\n", r.Channel.Name,
		humanize.SIWithDigits(float64(r.Channel.FrequencyKHz)*1e3, 3, "Hz"), r.Flags, dB(r.Metrics.RFLevel), dB(r.Metrics.CNR))
}

func dB(s frontend.Stat) string {
	if !s.Available {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", frontend.DeciBel(s.Value))
}
