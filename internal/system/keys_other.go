//go:build !linux

package system

import "context"

const (
	KeyEsc uint16 = 1
	KeyQ   uint16 = 16
	KeyR   uint16 = 19
	KeyF4  uint16 = 62
	KeyF5  uint16 = 63
)

// WatchKeys has no raw keyboard source outside linux.
func WatchKeys(ctx context.Context, l logger, handlers map[uint16]func()) {
	if l != nil {
		l.Infof("input", "raw key events unsupported on this platform")
	}
}
