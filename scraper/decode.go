package scraper

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// acceptEncoding is advertised on every page request. gzip is undone by the
// collector's backend, br by brotliTransport.
const acceptEncoding = "gzip, br"

// brotliTransport decodes br response bodies before the collector reads them,
// so charset conversion and the body size limit see plain markup.
type brotliTransport struct {
	base http.RoundTripper
}

func newBrotliTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &brotliTransport{base: base}
}

func (t *brotliTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp == nil || resp.Body == nil {
		return resp, err
	}
	if !strings.EqualFold(strings.TrimSpace(resp.Header.Get("Content-Encoding")), "br") {
		return resp, nil
	}

	resp.Body = &brotliBody{
		reader: brotli.NewReader(resp.Body),
		closer: resp.Body,
	}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

// brotliBody reports corrupt streams as ErrDecode.
type brotliBody struct {
	reader io.Reader
	closer io.Closer
}

func (b *brotliBody) Read(p []byte) (int, error) {
	n, err := b.reader.Read(p)
	if err != nil && err != io.EOF {
		err = ErrDecode{Encoding: "br", Err: err}
	}
	return n, err
}

func (b *brotliBody) Close() error {
	return b.closer.Close()
}
