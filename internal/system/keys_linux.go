//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const evKey = 0x01

// Linux input-event-codes.h
const (
	KeyEsc uint16 = 1
	KeyQ   uint16 = 16
	KeyR   uint16 = 19
	KeyF4  uint16 = 62
	KeyF5  uint16 = 63
)

// WatchKeys reads every /dev/input/event* device until ctx is done and
// calls handlers[code] on each key press. Handlers may run concurrently
// from different devices.
//
// It is best-effort: without input devices it logs and returns.
func WatchKeys(ctx context.Context, l logger, handlers map[uint16]func()) {
	if len(handlers) == 0 {
		return
	}
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if l != nil {
			l.Infof("input", "no evdev devices found")
		}
		return
	}

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	eventSize := tvSize + 2 + 2 + 4

	var mu sync.Mutex
	for _, path := range paths {
		path := path
		go func() {
			fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
			if err != nil {
				return
			}
			f := os.NewFile(uintptr(fd), path)
			defer f.Close()

			buf := make([]byte, 64*eventSize)
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
				if _, err := unix.Poll(pollFds, 250); err != nil {
					if err == unix.EINTR {
						continue
					}
					return
				}
				if pollFds[0].Revents&unix.POLLIN == 0 {
					continue
				}
				n, err := unix.Read(fd, buf)
				if err != nil {
					if err == unix.EAGAIN || err == unix.EINTR {
						continue
					}
					return
				}

				for off := 0; off+eventSize <= n; off += eventSize {
					code, pressed := parseKeyEvent(buf[off:off+eventSize], tvSize)
					if !pressed {
						continue
					}
					if h := handlers[code]; h != nil {
						if l != nil {
							l.Infof("input", "key %d pressed on %s", code, path)
						}
						mu.Lock()
						h()
						mu.Unlock()
					}
				}
			}
		}()
	}
}

// parseKeyEvent decodes one input_event record. pressed is true only for
// EV_KEY with value 1 (auto-repeat is 2, release 0).
func parseKeyEvent(rec []byte, tvSize int) (code uint16, pressed bool) {
	typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
	code = binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
	value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
	return code, typ == evKey && value == 1
}
