package middleware

import (
	"net/http"
)

// statusRecorder captures the status code and body size so the logging
// and metrics middlewares can report them after the handler runs.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten uint64
	wroteHeader  bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}

	w.statusCode = code
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += uint64(n)

	return n, err
}

func (w *statusRecorder) StatusCode() int {
	return w.statusCode
}

func (w *statusRecorder) BytesWritten() uint64 {
	return w.bytesWritten
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
