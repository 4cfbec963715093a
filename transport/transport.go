// Package transport builds the http.RoundTripper stack the Deckly client sends
// its requests through.
//
// The base is an http.Transport with connection pooling tuned for a long-lived
// API client, optionally dialing through a DNS cache. Decorators layer on top:
// transparent response decompression, structured request/response logging with
// credential redaction, and an OpenTelemetry span per attempt.
//
// # Basic Usage
//
//	rt := transport.New(transport.EnableDNSCache)
//	rt = transport.NewDecompressor(rt)
//	rt = transport.NewLogging(rt, slog.Default())
//	client := &http.Client{Transport: rt}
package transport

import (
	"crypto/tls"
	"net"
	"net/http"
)

// New returns a new http.Transport with defaults suited to a long-lived API
// client. Reuse a single instance for all requests to take advantage of
// connection pooling.
func New(options ...Option) *http.Transport {
	cfg := readOptions(options...)

	trans := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   defaultDialTimeout,
			KeepAlive: defaultKeepAlive,
		}).DialContext,
		MaxIdleConns:          defaultMaxIdleConns,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		ExpectContinueTimeout: defaultExpectContinueTimeout,
	}

	if cfg.DisableConnectionPooling {
		trans.DisableKeepAlives = true
	}

	if cfg.EnableDNSCache {
		useDNSCacheDialer(trans, defaultDialTimeout, defaultKeepAlive)
	}

	if cfg.InsecureTLS {
		trans.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec
		}
	}

	return trans
}
