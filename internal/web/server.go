package web

import "context"

// Server is the preview server lifecycle; NoopServer stands in when it is disabled.
type Server interface {
	Start(ctx context.Context) error
	Stop() error
}

type NoopServer struct{}

func (n *NoopServer) Start(ctx context.Context) error { return nil }
func (n *NoopServer) Stop() error                     { return nil }

var _ Server = (*HTTPServer)(nil)
