//go:build !linux

package console

import (
	"errors"
	"os"
)

// TTY is unavailable outside Linux; use the tui frontend instead.
type TTY struct{}

func Open(*os.File) (*TTY, error) {
	return nil, errors.New("plain console frontend is only supported on linux")
}

func (*TTY) EnableRawMode() error        { return ErrNotTerminal }
func (*TTY) DisableRawMode() error       { return nil }
func (*TTY) PollHasInput() (bool, error) { return false, ErrNotTerminal }
func (*TTY) ReadChar() (byte, error)     { return 0, ErrNotTerminal }
func (*TTY) ReadLine() (string, error)   { return "", ErrNotTerminal }

func Height(*os.File) int { return 0 }
