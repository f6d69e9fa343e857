//go:build !linux

package system

import "errors"

var errNoConsole = errors.New("console mode switching needs linux")

func SetGraphicsMode() error { return errNoConsole }
func RestoreTextMode() error { return errNoConsole }
func HideCursor() error      { return errNoConsole }
func ShowCursor() error      { return errNoConsole }
