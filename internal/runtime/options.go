package runtime

import "os"

type ServiceOption func(*ServiceCtx)

// WithServiceTermination lets callers supply their own signal channel to
// trigger shutdown externally.
func WithServiceTermination(ch chan os.Signal) ServiceOption {
	return func(c *ServiceCtx) {
		c.shutdownChannel = ch
	}
}

// WithWaitingForServer makes WaitForServer block until the http listener
// is up, which lets callers order startup in tests.
func WithWaitingForServer() ServiceOption {
	return func(c *ServiceCtx) {
		c.serverReady = make(chan struct{}, 1)
	}
}
