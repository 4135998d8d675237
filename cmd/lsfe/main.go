// lsfe: List all connected USB I2C bridges
//
// This tool enumerates the bridges connected to the system and, with -v,
// probes each one for a CXD2857 demodulator at the configured address.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/gousb"
	"github.com/herlein/isdbfe/pkg/config"
	"github.com/herlein/isdbfe/pkg/demod"
	"github.com/herlein/isdbfe/pkg/registers"
	"github.com/herlein/isdbfe/pkg/usbbridge"
	"github.com/quan-to/slog"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output (probe each bridge for a demodulator)")
	demodAddr := flag.Uint("a", config.DefaultDemodAddr, "Demodulator T slave address to probe")
	tunerAddr := flag.Uint("t", config.DefaultTunerAddr, "Tuner address to report")
	flag.Parse()

	slog.SetDebug(false)
	slog.SetShowLines(false)

	// Create USB context
	context := gousb.NewContext()
	defer context.Close()

	devices, err := usbbridge.FindAllDevices(context)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to enumerate devices: %v\n", err)
		os.Exit(1)
	}

	if len(devices) == 0 {
		fmt.Println("No bridges found")
		os.Exit(0)
	}

	fmt.Printf("Found %d bridge(s):\n", len(devices))
	fmt.Println()

	slaves := registers.NewSlaves(uint8(*demodAddr), uint8(*tunerAddr))

	for i, device := range devices {
		defer device.Close()

		if !*verbose {
			fmt.Printf("  #%d  %s  %s\n", i, device.Serial, device.Location())
			continue
		}

		fmt.Printf("Device #%d:\n", i)
		fmt.Printf("  Serial:       %s\n", device.Serial)
		fmt.Printf("  Bus:Address:  %s\n", device.Location())
		fmt.Printf("  Manufacturer: %s\n", device.Manufacturer)
		fmt.Printf("  Product:      %s\n", device.Product)
		fmt.Printf("  Functions:    0x%08X\n", device.Functions)

		ok, err := device.Probe(slaves.X)
		switch {
		case err != nil:
			fmt.Printf("  Demodulator:  (error: %v)\n", err)
		case !ok:
			fmt.Printf("  Demodulator:  none at 0x%02X\n", slaves.X)
		default:
			d := demod.New(registers.NewClient(device), slaves)
			id, err := d.ChipID()
			if err != nil {
				fmt.Printf("  Demodulator:  (error: %v)\n", err)
			} else {
				fmt.Printf("  Demodulator:  chip id 0x%04X (%s)\n", id, slaves)
			}
		}
		fmt.Println()
	}

	if !*verbose {
		fmt.Println()
		fmt.Println("Use -d flag with other tools to select device:")
		fmt.Println("  -d \"#0\"      Select by index")
		fmt.Println("  -d \"1:10\"    Select by bus:address")
		fmt.Println("  -d \"A1B2\"    Select by serial (if unique)")
	}
}
