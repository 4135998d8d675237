package usbbridge

import (
	"fmt"

	"github.com/google/gousb"
)

// ResetResult is the outcome of resetting one bridge
type ResetResult struct {
	Serial   string
	Location string
	Err      error
}

// ResetDevices issues a USB port reset to the bridges matching selector.
// An empty selector resets every bridge. The bridge firmware is not
// queried first, so a bridge that stopped answering can still be reset.
// All enumerated devices are closed on return.
func ResetDevices(context *gousb.Context, selector DeviceSelector) ([]ResetResult, error) {
	p, err := selector.parse()
	if err != nil {
		return nil, err
	}

	usbDevices, err := context.OpenDevices(func(descriptor *gousb.DeviceDesc) bool {
		return descriptor.Vendor == gousb.ID(VendorID) && descriptor.Product == gousb.ID(ProductID)
	})
	devices := make([]*Device, 0, len(usbDevices))
	for _, usbDev := range usbDevices {
		devices = append(devices, describe(usbDev))
	}
	defer func() {
		for _, d := range devices {
			d.Close()
		}
	}()
	if err != nil && len(devices) == 0 {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	targets, err := resetTargets(p, devices)
	if err != nil {
		return nil, err
	}

	results := make([]ResetResult, 0, len(targets))
	for _, d := range targets {
		log.Debug("Resetting %s at %s", d.Serial, d.Location())
		r := ResetResult{Serial: d.Serial, Location: d.Location()}
		if err := d.usbDevice.Reset(); err != nil {
			r.Err = fmt.Errorf("failed to reset %s: %w", d.Location(), err)
		}
		results = append(results, r)
	}
	return results, nil
}

// resetTargets returns every device for the empty selector, otherwise the
// single match
func resetTargets(p parsedSelector, devices []*Device) ([]*Device, error) {
	if p.kind == selectFirst {
		if len(devices) == 0 {
			return nil, fmt.Errorf("no bridges found")
		}
		return devices, nil
	}
	index, err := p.pick(devices)
	if err != nil {
		return nil, err
	}
	return devices[index : index+1], nil
}
