//go:build linux

package sensehat

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"midiclock/matrix"
)

// Display renders the clock state to the LED matrix framebuffer.
type Display struct {
	path string

	mu   sync.Mutex
	file *os.File
	mem  []byte
}

// OpenDisplay locates and maps the Sense HAT framebuffer.
func OpenDisplay() (*Display, error) {
	path, err := findDevice("/sys/class/graphics/fb*", "name", fbName, "/dev")
	if err != nil {
		return nil, err
	}
	return OpenDisplayAt(path)
}

// OpenDisplayAt maps the framebuffer device at path.
func OpenDisplayAt(path string) (*Display, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, fbSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "mmap %s", path)
	}
	return &Display{path: path, file: f, mem: mem}, nil
}

func (d *Display) Render(bpm float64, running bool, beat int) {
	d.Show(matrix.Compose(bpm, running, beat))
}

// Show writes f to the matrix.
func (d *Display) Show(f matrix.Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mem == nil {
		return
	}
	encodeFrame(f, d.mem)
}

// Close blanks the matrix and releases the mapping.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mem == nil {
		return nil
	}
	encodeFrame(matrix.Frame{}, d.mem)
	err := unix.Munmap(d.mem)
	d.mem = nil
	if cerr := d.file.Close(); err == nil {
		err = cerr
	}
	return errors.Wrapf(err, "close %s", d.path)
}
