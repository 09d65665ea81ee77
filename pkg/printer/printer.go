package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// ErrNotConfigured is returned by the printer used when PRINTER_TYPE is none.
var ErrNotConfigured = errors.New("printer: no receipt printer configured")

// Printer sends a raw ESC/POS job to a thermal printer.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	// Ping reports whether the device is reachable right now.
	Ping(ctx context.Context) bool
}

// Config selects the printer transport.
type Config struct {
	Type    string // usb, network or none
	USBPath string // e.g. /dev/usb/lp0
	Address string // e.g. 192.168.1.100:9100
}

// New returns the printer described by cfg.
func New(cfg Config) (Printer, error) {
	switch cfg.Type {
	case "usb":
		if cfg.USBPath == "" {
			return nil, errors.New("printer: PRINTER_USB_PATH is required for usb printers")
		}
		return &usbPrinter{path: cfg.USBPath}, nil
	case "network":
		if cfg.Address == "" {
			return nil, errors.New("printer: PRINTER_ADDRESS is required for network printers")
		}
		return &networkPrinter{address: cfg.Address, dialTimeout: 5 * time.Second, writeTimeout: 10 * time.Second}, nil
	case "none", "":
		return nullPrinter{}, nil
	default:
		return nil, fmt.Errorf("printer: unknown type %q (use usb, network or none)", cfg.Type)
	}
}

// usbPrinter writes each job to the device file.
type usbPrinter struct {
	path string
}

func (p *usbPrinter) Print(_ context.Context, data []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Ping(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// networkPrinter dials a raw TCP port (JetDirect, usually 9100) per job.
type networkPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

func (p *networkPrinter) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: p.dialTimeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Ping(ctx context.Context) bool {
	conn, err := p.dial(ctx)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

type nullPrinter struct{}

func (nullPrinter) Print(context.Context, []byte) error { return ErrNotConfigured }

func (nullPrinter) Ping(context.Context) bool { return false }
