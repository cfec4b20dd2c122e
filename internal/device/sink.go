package device

import (
	"fmt"
	"sort"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/dshills/altnav/internal/input/key"
)

// busVirtual is BUS_VIRTUAL from linux/input.h.
const busVirtual = 0x06

// Sink accepts synthesized events.
type Sink interface {
	WriteEvent(RawEvent) error
	Close() error
}

// WriteTriplet writes the scan, key and sync events for ks, in that order.
// It stops at the first failure.
func WriteTriplet(s Sink, ks key.Keystroke) error {
	for _, ev := range Triplet(ks) {
		if err := s.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// Identity describes the virtual device to the kernel.
type Identity struct {
	Name    string
	Vendor  uint16
	Product uint16
}

// Virtual is a uinput keyboard.
type Virtual struct {
	dev *evdev.InputDevice

	closeOnce sync.Once
	closeErr  error
}

// CreateVirtual creates the uinput device. keys lists every key code the
// device may emit; duplicates are fine.
func CreateVirtual(id Identity, keys []key.Code) (*Virtual, error) {
	dev, err := evdev.CreateDevice(
		id.Name,
		evdev.InputID{
			BusType: busVirtual,
			Vendor:  id.Vendor,
			Product: id.Product,
			Version: 1,
		},
		Capabilities(keys),
	)
	if err != nil {
		return nil, fmt.Errorf("create virtual device %q: %w", id.Name, err)
	}
	return &Virtual{dev: dev}, nil
}

// Capabilities builds the capability map for a keyboard emitting keys.
func Capabilities(keys []key.Code) map[evdev.EvType][]evdev.EvCode {
	seen := make(map[evdev.EvCode]bool, len(keys))
	codes := make([]evdev.EvCode, 0, len(keys))
	for _, k := range keys {
		c := evdev.EvCode(k)
		if seen[c] {
			continue
		}
		seen[c] = true
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	return map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: codes,
		evdev.EV_MSC: {evdev.MSC_SCAN},
	}
}

// WriteEvent writes one event to the virtual device.
func (v *Virtual) WriteEvent(ev RawEvent) error {
	return v.dev.WriteOne(ev.Input(time.Now()))
}

// Close destroys the virtual device. Only the first call has an effect.
func (v *Virtual) Close() error {
	v.closeOnce.Do(func() {
		v.closeErr = v.dev.Close()
	})
	return v.closeErr
}
