package transport

import "time"

const (
	defaultIdleConnTimeout       = 90 * time.Second
	defaultMaxIdleConns          = 100
	defaultTLSHandshakeTimeout   = 10 * time.Second
	defaultExpectContinueTimeout = 1 * time.Second
	defaultDialTimeout           = 30 * time.Second //nolint:gomnd,mnd
	defaultKeepAlive             = 30 * time.Second //nolint:gomnd,mnd
)

// Option configures the base transport built by New.
type Option func(*config)

type config struct {
	DisableConnectionPooling bool
	EnableDNSCache           bool
	InsecureTLS              bool
}

// DisableConnectionPooling turns off HTTP keep-alive and connection reuse.
func DisableConnectionPooling(c *config) {
	c.DisableConnectionPooling = true
}

// EnableDNSCache routes dials through a shared caching DNS resolver to reduce
// lookup traffic under sustained polling.
func EnableDNSCache(c *config) {
	c.EnableDNSCache = true
}

// InsecureTLS skips TLS certificate verification. Only for testing.
func InsecureTLS(c *config) {
	c.InsecureTLS = true
}

func readOptions(opts ...Option) *config {
	cfg := &config{}

	for _, c := range opts {
		if c != nil {
			c(cfg)
		}
	}

	return cfg
}
