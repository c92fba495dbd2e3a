package device

import (
	"fmt"
	"io"
	"log/slog"
)

// MaxDrivers is the number of driver slots the capture subsystem exposes.
const MaxDrivers = 10

// Device is a capture driver registered with the host.
type Device struct {
	Index       int    // driver slot, used to connect
	Name        string // driver name
	Description string // driver version / description string
}

// DescriptionSource looks up the driver registered at a slot.
type DescriptionSource interface {
	DriverDescription(index int) (name, description string, ok bool)
}

// List queries every driver slot and returns the registered devices in slot
// order. Empty slots are skipped; an empty result is not an error.
func List(src DescriptionSource) []Device {
	var devices []Device
	for i := 0; i < MaxDrivers; i++ {
		name, desc, ok := src.DriverDescription(i)
		if !ok {
			continue
		}
		slog.Debug("found capture device", "index", i, "name", name)
		devices = append(devices, Device{Index: i, Name: name, Description: desc})
	}
	return devices
}

// Print writes the numbered device listing shown before selection.
func Print(w io.Writer, devices []Device) {
	fmt.Fprintln(w, "Camera devices: ")
	for i, d := range devices {
		fmt.Fprintf(w, "%d : %s\n\t%s\n", i+1, d.Name, d.Description)
	}
}
