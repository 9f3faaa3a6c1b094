package gateway

import (
	"net/url"
	"strings"
	"time"
)

// DefaultAPIPrefix is the path the gateway API is mounted under.
const DefaultAPIPrefix = "/act5/api/v1"

// Config holds resolved connection settings for the gateway.
type Config struct {
	Endpoint  string
	APIPrefix string
	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration
}

// Validate checks that the endpoint is an absolute http(s) URL.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrEndpointRequired
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidEndpoint
	}

	return nil
}

// WithDefaults returns a copy of the config with default values applied.
// If APIPrefix is empty, it defaults to DefaultAPIPrefix.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = DefaultAPIPrefix
	}
	return &cfg
}

// BaseURL joins the endpoint and API prefix without duplicate slashes.
func (c *Config) BaseURL() string {
	endpoint := strings.TrimSuffix(c.Endpoint, "/")
	prefix := strings.Trim(c.APIPrefix, "/")
	if prefix == "" {
		return endpoint
	}
	return endpoint + "/" + prefix
}
