package etag

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-http-utils/headers"
	"github.com/pkg/errors"

	"github.com/ilpanich/etag-middleware/rfc7232"
)

type headKey struct{}

// Director wraps the Director of an httputil.ReverseProxy. HEAD requests are
// forwarded as GET, so that ModifyResponse sees the representation; it drops the
// body again before the response reaches the client.
func (m *Middleware) Director(director func(*http.Request)) func(*http.Request) {
	return func(req *http.Request) {
		director(req)
		if req.Method != http.MethodHead || m.bypass.Match(req) {
			return
		}
		req.Method = http.MethodGet
		*req = *req.WithContext(context.WithValue(req.Context(), headKey{}, true))
	}
}

// forwardedHead reports whether req is a HEAD request forwarded as GET by Director.
func forwardedHead(req *http.Request) bool {
	head, _ := req.Context().Value(headKey{}).(bool)
	return head
}

// ModifyResponse applies the middleware to a response received by a reverse proxy.
// It has the signature of httputil.ReverseProxy.ModifyResponse.
//
// A body that cannot be read is returned as an error, which the proxy turns into a
// 502 (Bad Gateway) through its ErrorHandler.
func (m *Middleware) ModifyResponse(res *http.Response) error {
	if res.Request == nil {
		return errors.New("response without request")
	}
	head := forwardedHead(res.Request)
	if !head && m.bypass.Match(res.Request) {
		return nil
	}
	method := res.Request.Method
	if head {
		method = http.MethodHead
	}

	pr := &proxiedResponse{res: res}
	d, err := m.evaluate(res.Request, method, pr)
	if err != nil {
		m.getLogger(res.Request).Error().Err(err).Msg("Could not evaluate proxied response")
		return err
	}

	switch d.Outcome {
	case rfc7232.NotModified:
		pr.replace(http.StatusNotModified, rfc7232.NotModifiedHeader(res.Header))
	case rfc7232.PreconditionFailed:
		pr.replace(http.StatusPreconditionFailed, rfc7232.PreconditionFailedHeader(d.ETag))
	default:
		if head {
			pr.dropBody()
		}
	}
	return nil
}

// proxiedResponse adapts an *http.Response to Response.
type proxiedResponse struct {
	res  *http.Response
	read bool
}

func (p *proxiedResponse) StatusCode() int {
	return p.res.StatusCode
}

func (p *proxiedResponse) Header() http.Header {
	return p.res.Header
}

// Body reads the complete body and puts it back, so it can still be sent to the client.
func (p *proxiedResponse) Body() ([]byte, error) {
	if p.res.Body == nil || p.res.Body == http.NoBody {
		p.read = true
		return nil, nil
	}
	body, err := io.ReadAll(p.res.Body)
	p.res.Body.Close()
	if err != nil {
		return nil, err
	}
	p.read = true
	p.res.Body = io.NopCloser(bytes.NewReader(body))
	p.res.ContentLength = int64(len(body))
	if len(p.res.TransferEncoding) == 0 {
		p.res.Header.Set(headers.ContentLength, strconv.Itoa(len(body)))
	}
	return body, nil
}

// dropBody removes the body but keeps the header, Content-Length included.
func (p *proxiedResponse) dropBody() {
	if !p.read && p.res.Body != nil {
		p.res.Body.Close()
	}
	p.res.Body = http.NoBody
}

// replace turns the response into a bodiless one with the given status and header.
func (p *proxiedResponse) replace(statusCode int, header http.Header) {
	if !p.read && p.res.Body != nil {
		p.res.Body.Close()
	}
	p.res.StatusCode = statusCode
	p.res.Status = strconv.Itoa(statusCode) + " " + http.StatusText(statusCode)
	p.res.Header = header
	p.res.Body = http.NoBody
	p.res.ContentLength = 0
	p.res.TransferEncoding = nil
}
