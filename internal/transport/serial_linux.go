//go:build linux

package transport

import (
	"fmt"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// SerialPort implements interfaces.Port over a real TTY device, configured
// for 250000 baud / 8-N-1 via termios2 BOTHER, since 250000 has no
// standard Bxxx constant. Raw unix ioctls rather than a higher-level
// serial library: the link needs an exact baud the stdlib and most serial
// packages don't expose directly.
type SerialPort struct {
	f *os.File
	// fd is cached separately from f.Fd() to avoid a repeated syscall on
	// every PutByte/GetByte.
	fd uintptr

	mu      sync.Mutex
	dropped uint8
}

// OpenSerialPort opens path (e.g. "/dev/ttyUSB0") and configures it for
// 250000 baud, 8 data bits, no parity, 1 stop bit, raw mode.
func OpenSerialPort(path string) (*SerialPort, error) {
	f, err := os.OpenFile(path, os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", path, err)
	}

	p := &SerialPort{f: f, fd: f.Fd()}
	if err := p.configure(250000); err != nil {
		f.Close()
		return nil, err
	}
	return p, nil
}

func (p *SerialPort) configure(baud uint32) error {
	t, err := unix.IoctlGetTermios(int(p.fd), unix.TCGETS2)
	if err != nil {
		return fmt.Errorf("transport: TCGETS2: %w", err)
	}

	// Raw mode: no line discipline processing, 8-N-1, custom divisor via
	// BOTHER since 250000 has no Bxxx constant.
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL | unix.BOTHER
	t.Ispeed = baud
	t.Ospeed = baud

	// Non-blocking single-byte reads: the report engine polls GetByte
	// every Pump, it never blocks waiting for input.
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(int(p.fd), unix.TCSETS2, t); err != nil {
		return fmt.Errorf("transport: TCSETS2: %w", err)
	}
	return nil
}

// PutByte implements interfaces.Port.
func (p *SerialPort) PutByte(b byte) error {
	_, err := unix.Write(int(p.fd), []byte{b})
	if err != nil {
		p.mu.Lock()
		if p.dropped < 0xFF {
			p.dropped++
		}
		p.mu.Unlock()
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// GetByte implements interfaces.Port. With VMIN=0/VTIME=0 a read that has
// no data ready returns (0, nil) from the kernel; that is surfaced here as
// ErrEmpty so callers see the same non-blocking contract as LoopbackPort.
func (p *SerialPort) GetByte() (byte, error) {
	var buf [1]byte
	n, err := unix.Read(int(p.fd), buf[:])
	if err != nil {
		return 0, fmt.Errorf("transport: read: %w", err)
	}
	if n == 0 {
		return 0, ErrEmpty
	}
	return buf[0], nil
}

// DroppedPackets implements interfaces.Port.
func (p *SerialPort) DroppedPackets() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close releases the underlying file descriptor.
func (p *SerialPort) Close() error {
	return p.f.Close()
}
