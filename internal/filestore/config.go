package filestore

import "github.com/koustreak/chococrunch/internal/errs"

// Provider identifies the storage backend.
type Provider string

const ProviderMinIO Provider = "minio"

// Config describes where archived reports are written.
type Config struct {
	Provider  Provider
	Endpoint  string // host:port, e.g. "localhost:9000"
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string // empty for MinIO

	// DefaultBucket receives every archived report. It is created on start
	// when missing.
	DefaultBucket string
}

// DefaultConfig is a plain-HTTP MinIO config for endpoint.
func DefaultConfig(endpoint, accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
	}
}

// Validate reports the first setting a provider cannot start without.
func (c *Config) Validate() error {
	switch {
	case c.Provider != "" && c.Provider != ProviderMinIO:
		return errs.Newf(errs.ErrKindInvalidInput, "unsupported filestore provider %q", c.Provider)
	case c.Endpoint == "":
		return errs.New(errs.ErrKindInvalidInput, "filestore endpoint is required")
	case c.DefaultBucket == "":
		return errs.New(errs.ErrKindInvalidInput, "filestore bucket is required")
	}
	return nil
}
