package transport

import (
	"io"
	"net/http"

	"github.com/fereidani/httpdecompressor"
)

// NewDecompressor wraps roundTripper so that response bodies compressed with
// gzip, deflate, br, or zstd are transparently decompressed based on the
// Content-Encoding header. Uncompressed responses pass through unchanged.
// A nil roundTripper falls back to http.DefaultTransport.
func NewDecompressor(roundTripper http.RoundTripper) http.RoundTripper {
	if roundTripper == nil {
		roundTripper = http.DefaultTransport
	}

	return &decompressor{
		roundTripper: roundTripper,
	}
}

type decompressor struct {
	roundTripper http.RoundTripper
}

// RoundTrip performs the request and swaps in a decompressing reader when the
// response is compressed. When decompression happens, closing the returned
// body closes the decoder first (flushing buffered data) and then the original
// body (releasing the connection).
func (d *decompressor) RoundTrip(request *http.Request) (*http.Response, error) {
	rsp, err := d.roundTripper.RoundTrip(request)
	if err != nil {
		return rsp, err
	}

	origBody := rsp.Body

	bodyReader, err := httpdecompressor.Reader(rsp)
	if err != nil {
		return nil, err
	}

	// Not compressed, nothing to wrap.
	if bodyReader == origBody {
		return rsp, nil
	}

	rsp.Body = &decompressedBody{
		reader:   bodyReader,
		origBody: origBody,
	}

	return rsp, nil
}

// decompressedBody is the replacement response body: reads come from the
// decoder, Close tears down the decoder and the underlying body in order.
type decompressedBody struct {
	reader   io.Reader
	origBody io.ReadCloser
}

func (b *decompressedBody) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *decompressedBody) Close() error {
	var decodeErr error
	if c, ok := b.reader.(io.Closer); ok {
		decodeErr = c.Close()
	}

	if err := b.origBody.Close(); err != nil {
		return err
	}

	return decodeErr
}

// Compile-time assertion that decompressor implements http.RoundTripper.
var _ http.RoundTripper = (*decompressor)(nil)
