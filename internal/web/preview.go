package web

import (
	"bytes"
	"image"
	"image/png"
	"sync"
	"time"
)

// Preview keeps the most recent published frame and its PNG encoding.
// The frame loop publishes; HTTP handlers read.
type Preview struct {
	mu      sync.Mutex
	frame   *image.RGBA
	encoded []byte
	at      time.Time
}

func NewPreview() *Preview { return &Preview{} }

// PublishFrame stores img. The caller must not modify it afterwards.
func (p *Preview) PublishFrame(img *image.RGBA) {
	p.mu.Lock()
	p.frame = img
	p.encoded = nil
	p.at = time.Now()
	p.mu.Unlock()
}

// PNG returns the latest frame encoded as PNG, or nil before the first
// publish. Encodings are cached until the next frame arrives.
func (p *Preview) PNG() ([]byte, time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.frame == nil {
		return nil, time.Time{}, nil
	}
	if p.encoded == nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, p.frame); err != nil {
			return nil, time.Time{}, err
		}
		p.encoded = buf.Bytes()
	}
	return p.encoded, p.at, nil
}
