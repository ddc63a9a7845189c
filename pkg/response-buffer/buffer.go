package buffer

import (
	"bytes"
	"net/http"
)

// ResponseBuffer is an http.ResponseWriter that keeps the complete response in memory.
// Nothing is sent until the buffered response is written out with Send.
type ResponseBuffer struct {
	b            *bytes.Buffer
	header       http.Header
	status       int
	wroteHeaders bool
}

// Implementation of http.ResponseWriter
func (t *ResponseBuffer) Header() http.Header {
	return t.header
}

// Implementation of http.ResponseWriter
func (t *ResponseBuffer) WriteHeader(statusCode int) {
	// informational responses are not part of the final response
	if statusCode >= 100 && statusCode < 200 && statusCode != http.StatusSwitchingProtocols {
		return
	}
	// only the first call counts, like the real thing
	if t.wroteHeaders {
		return
	}
	t.wroteHeaders = true
	t.status = statusCode
}

// Implementation of http.ResponseWriter
func (t *ResponseBuffer) Write(b []byte) (int, error) {
	// write headers if not already written
	if !t.wroteHeaders {
		t.WriteHeader(http.StatusOK)
	}
	return t.b.Write(b)
}

// Flush implements http.Flusher. The body is only sent by Send, so this is a no-op
// that keeps handlers relying on a Flusher working.
func (t *ResponseBuffer) Flush() {}

// StatusCode returns the status code of the response.
// It is 200 if the handler never called WriteHeader or Write.
func (t *ResponseBuffer) StatusCode() int {
	if !t.wroteHeaders {
		return http.StatusOK
	}
	return t.status
}

// Body returns the buffered body. It never fails.
func (t *ResponseBuffer) Body() ([]byte, error) {
	return t.b.Bytes(), nil
}

// Len returns the number of buffered body bytes.
func (t *ResponseBuffer) Len() int {
	return t.b.Len()
}

// Send writes the buffered response to w.
func (t *ResponseBuffer) Send(w http.ResponseWriter) error {
	t.SendHeader(w)
	_, err := w.Write(t.b.Bytes())
	return err
}

// SendHeader writes the buffered status and header fields to w, but not the body.
func (t *ResponseBuffer) SendHeader(w http.ResponseWriter) {
	copyHeader(w.Header(), t.header)
	w.WriteHeader(t.StatusCode())
}

// New returns an empty ResponseBuffer.
func New() *ResponseBuffer {
	return &ResponseBuffer{
		b:      &bytes.Buffer{},
		header: http.Header{},
	}
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}
