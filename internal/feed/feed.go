// Package feed supplies the frames that annotations are drawn over.
package feed

import "image"

// Source produces one frame per call. Frames must match the size the
// source was built for.
type Source interface {
	Next() (image.Image, error)
}
