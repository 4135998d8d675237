// fe-dump-regs: Dump CXD2857 demodulator registers to a YAML file
//
// This tool connects to a demodulator, reads the register banks used by
// the tune sequences and saves them to a YAML file. The dump can later
// be written back using fe-load-regs.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/gousb"
	"github.com/herlein/isdbfe/pkg/board"
	"github.com/herlein/isdbfe/pkg/config"
	"github.com/herlein/isdbfe/pkg/demod"
	"github.com/herlein/isdbfe/pkg/usbbridge"
	"github.com/quan-to/slog"
	"gopkg.in/yaml.v3"
)

func main() {
	// Parse command line flags
	configPath := flag.String("c", "", "Board configuration file (default: built-in defaults)")
	outputFile := flag.String("o", "", "Output file path (default: etc/isdbfe/<name>-regs.yaml)")
	deviceSel := flag.String("d", "", usbbridge.DeviceFlagUsage())
	verbose := flag.Bool("v", false, "Verbose output")
	stdout := flag.Bool("stdout", false, "Write the dump to stdout instead of a file")
	flag.Parse()

	slog.SetDebug(*verbose)
	slog.SetShowLines(false)

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
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
	context := gousb.NewContext()
	defer context.Close()

	b, err := board.Open(context, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	if *verbose {
		fmt.Printf("Connected to: %s\n", b.Name)
	}

	c := b.Client()
	if err := demod.New(c, cfg.Slaves()).Detect(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dump, err := config.DumpRegisters(c, cfg.Slaves(), config.DefaultDumpRanges)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to dump registers: %v\n", err)
		os.Exit(1)
	}

	if *stdout {
		data, err := yaml.Marshal(dump)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to marshal dump: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
		return
	}

	path := *outputFile
	if path == "" {
		name := cfg.Name
		if name == "" {
			name = fmt.Sprintf("%02x", cfg.DemodAddr)
		}
		path = config.GetConfigPath(name + "-regs")
	}

	if err := config.SaveToFile(dump, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to save dump: %v\n", err)
		os.Exit(1)
	}

	total := 0
	for _, bank := range dump.Banks {
		total += len(bank.Data)
	}
	fmt.Printf("Dumped %d banks (%s) to: %s\n", len(dump.Banks), humanize.Bytes(uint64(total)), path)
}
