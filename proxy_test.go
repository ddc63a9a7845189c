package etag

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"

	bypass "github.com/ilpanich/etag-middleware/pkg/bypass-rules"
)

func newProxy(t *testing.T, mw *Middleware, origin http.Handler) *httptest.Server {
	t.Helper()
	upstream := httptest.NewServer(origin)
	t.Cleanup(upstream.Close)
	target, err := url.Parse(upstream.URL)
	if err != nil {
		t.Fatal(err)
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.Director = mw.Director(proxy.Director)
	proxy.ModifyResponse = mw.ModifyResponse
	srv := httptest.NewServer(proxy)
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url string, header map[string]string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return res, string(body)
}

func TestProxyAddsETag(t *testing.T) {
	is := is.New(t)
	srv := newProxy(t, newMiddleware(t, Config{}), helloHandler())

	res, body := doRequest(t, "GET", srv.URL, nil)

	is.Equal(res.StatusCode, http.StatusOK)
	is.Equal(body, "hello")
	is.Equal(res.Header.Get("ETag"), `"`+helloDigest+`"`)
	is.Equal(res.Header.Get("Content-Type"), "text/plain")
}

func TestProxyNotModified(t *testing.T) {
	is := is.New(t)
	srv := newProxy(t, newMiddleware(t, Config{}), helloHandler())
	etag := `"` + helloDigest + `"`

	res, body := doRequest(t, "GET", srv.URL, map[string]string{"If-None-Match": etag})

	is.Equal(res.StatusCode, http.StatusNotModified)
	is.Equal(body, "")
	is.Equal(res.Header.Get("ETag"), etag)
	is.Equal(res.Header.Get("Content-Type"), "")
}

func TestProxyPreconditionFailed(t *testing.T) {
	is := is.New(t)
	srv := newProxy(t, newMiddleware(t, Config{}), helloHandler())

	res, body := doRequest(t, "PUT", srv.URL, map[string]string{"If-Match": `"wrong"`})

	is.Equal(res.StatusCode, http.StatusPreconditionFailed)
	is.Equal(body, "")
	is.Equal(res.Header.Get("ETag"), `"`+helloDigest+`"`)
}

func TestProxyKeepsOriginETag(t *testing.T) {
	is := is.New(t)
	srv := newProxy(t, newMiddleware(t, Config{}), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v7"`)
		w.Write([]byte("hello"))
	}))

	res, _ := doRequest(t, "GET", srv.URL, map[string]string{"If-None-Match": `W/"v7"`})

	is.Equal(res.StatusCode, http.StatusNotModified)
	is.Equal(res.Header.Get("ETag"), `"v7"`)
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (failingBody) Close() error            { return nil }

func TestModifyResponseBodyError(t *testing.T) {
	is := is.New(t)
	mw := newMiddleware(t, Config{})
	res := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       failingBody{},
		Request:    httptest.NewRequest("GET", "/", nil),
	}

	err := mw.ModifyResponse(res)

	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "connection reset"))
	is.Equal(res.Header.Get("ETag"), "")
}

func TestModifyResponseWithoutRequest(t *testing.T) {
	is := is.New(t)
	err := newMiddleware(t, Config{}).ModifyResponse(&http.Response{StatusCode: 200, Header: http.Header{}})
	is.True(err != nil)
}

func TestModifyResponseRestoresBody(t *testing.T) {
	is := is.New(t)
	res := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("hello")),
		Request:    httptest.NewRequest("GET", "/", nil),
	}

	is.NoErr(newMiddleware(t, Config{}).ModifyResponse(res))

	body, err := io.ReadAll(res.Body)
	is.NoErr(err)
	is.Equal(string(body), "hello")
	is.Equal(res.ContentLength, int64(5))
	is.Equal(res.Header.Get("Content-Length"), "5")
	is.Equal(res.Header.Get("ETag"), `"`+helloDigest+`"`)
}

func TestModifyResponseNotModified(t *testing.T) {
	is := is.New(t)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("If-None-Match", "*")
	res := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"text/plain"}, "Vary": {"Accept"}},
		Body:       io.NopCloser(strings.NewReader("hello")),
		Request:    req,
	}

	is.NoErr(newMiddleware(t, Config{}).ModifyResponse(res))

	is.Equal(res.StatusCode, http.StatusNotModified)
	is.Equal(res.Status, "304 Not Modified")
	is.Equal(res.Body, http.NoBody)
	is.Equal(res.Header.Get("Vary"), "Accept")
	is.Equal(res.Header.Get("Content-Type"), "")
	is.Equal(res.Header.Get("ETag"), `"`+helloDigest+`"`)
}

func TestProxyHeadUsesRepresentationETag(t *testing.T) {
	is := is.New(t)
	var (
		mu      sync.Mutex
		methods []string
	)
	srv := newProxy(t, newMiddleware(t, Config{}), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("hello"))
	}))

	get, _ := doRequest(t, "GET", srv.URL, nil)
	head, body := doRequest(t, "HEAD", srv.URL, nil)

	is.Equal(head.StatusCode, http.StatusOK)
	is.Equal(body, "")
	is.Equal(head.Header.Get("ETag"), get.Header.Get("ETag"))
	mu.Lock()
	is.Equal(methods, []string{"GET", "GET"}) // HEAD went upstream as GET
	mu.Unlock()

	// revalidation with the tag of the GET response
	head, _ = doRequest(t, "HEAD", srv.URL, map[string]string{"If-None-Match": get.Header.Get("ETag")})
	is.Equal(head.StatusCode, http.StatusNotModified)
}

func TestModifyResponseForwardedHead(t *testing.T) {
	is := is.New(t)
	mw := newMiddleware(t, Config{})
	req := httptest.NewRequest("HEAD", "/", nil)
	mw.Director(func(*http.Request) {})(req)
	is.Equal(req.Method, "GET")

	res := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("hello")),
		Request:    req,
	}
	is.NoErr(mw.ModifyResponse(res))

	is.Equal(res.StatusCode, http.StatusOK)
	is.Equal(res.Body, http.NoBody)
	is.Equal(res.Header.Get("ETag"), `"`+helloDigest+`"`)
	is.Equal(res.Header.Get("Content-Length"), "5")
}

func TestDirectorKeepsBypassedHead(t *testing.T) {
	is := is.New(t)
	mw := newMiddleware(t, Config{Bypass: bypass.Rules{{Prefix: "/events"}}})
	req := httptest.NewRequest("HEAD", "/events/1", nil)

	mw.Director(func(*http.Request) {})(req)

	is.Equal(req.Method, "HEAD")
	is.True(!forwardedHead(req))
}
