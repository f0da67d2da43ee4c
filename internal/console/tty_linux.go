//go:build linux

package console

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TTY is the Linux terminal behind the plain frontend. Raw mode only clears
// ICANON and ECHO, so output post-processing and ctrl+c keep working.
type TTY struct {
	fd    int
	r     *bufio.Reader
	saved *unix.Termios
}

// Open wraps in, which must be a terminal.
func Open(in *os.File) (*TTY, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	return &TTY{fd: fd, r: bufio.NewReader(in)}, nil
}

func (t *TTY) EnableRawMode() error {
	state, err := unix.IoctlGetTermios(t.fd, unix.TCGETS)
	if err != nil {
		return err
	}
	if t.saved == nil {
		saved := *state
		t.saved = &saved
	}
	raw := *state
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	return unix.IoctlSetTermios(t.fd, unix.TCSETS, &raw)
}

// DisableRawMode restores the state captured by the first EnableRawMode.
func (t *TTY) DisableRawMode() error {
	if t.saved == nil {
		return nil
	}
	return unix.IoctlSetTermios(t.fd, unix.TCSETS, t.saved)
}

// PollHasInput checks the kernel's pending byte count without reading.
func (t *TTY) PollHasInput() (bool, error) {
	if t.r.Buffered() > 0 {
		return true, nil
	}
	n, err := unix.IoctlGetInt(t.fd, unix.TIOCINQ)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (t *TTY) ReadChar() (byte, error) {
	return t.r.ReadByte()
}

func (t *TTY) ReadLine() (string, error) {
	line, err := t.r.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Height returns the number of rows of the terminal on out, or 0 if unknown.
func Height(out *os.File) int {
	_, h, err := term.GetSize(int(out.Fd()))
	if err != nil {
		return 0
	}
	return h
}
