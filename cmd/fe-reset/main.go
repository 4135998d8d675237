// fe-reset: Reset USB I2C bridges to recover from USB errors
//
// Without -d every connected bridge is reset. Enumeration is retried
// because a bridge that was just reset takes a moment to come back.
//
// Examples:
//
//	./fe-reset
//	./fe-reset -d 1:10
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/gousb"
	"github.com/herlein/isdbfe/pkg/usbbridge"
	"github.com/quan-to/slog"
)

func main() {
	deviceSel := flag.String("d", "", usbbridge.DeviceFlagUsage()+"\n    (default: all bridges)")
	attempts := flag.Int("n", 3, "Enumeration attempts")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	slog.SetDebug(*verbose)
	slog.SetShowLines(false)

	// Create USB context
	context := gousb.NewContext()
	defer context.Close()

	var results []usbbridge.ResetResult
	var err error
	for attempt := 1; attempt <= *attempts; attempt++ {
		results, err = usbbridge.ResetDevices(context, usbbridge.DeviceSelector(*deviceSel))
		if err == nil {
			break
		}
		if *verbose {
			fmt.Printf("Attempt %d: %v\n", attempt, err)
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to reset bridges after %d attempts: %v\n", *attempts, err)
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("  %s  %s  reset failed: %v\n", r.Serial, r.Location, r.Err)
			continue
		}
		fmt.Printf("  %s  %s  reset OK\n", r.Serial, r.Location)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "Error: %d of %d bridge(s) failed to reset\n", failed, len(results))
		os.Exit(1)
	}
}
