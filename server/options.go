package server

import "github.com/hcnet/respd/resp"

// Config holds the settings that vary a Server's behaviour; Option
// functions mutate it at construction time, following the same
// functional-options shape as resp.Option and netconf/rfc6242's
// DecoderOption/EncoderOption.
type Config struct {
	connBufferSize int
	connReadLimit  int64
}

func defaultConfig() Config {
	return Config{connBufferSize: 4096}
}

// Option configures a Server at construction time.
type Option func(*Config)

// WithConnBufferSize sets the initial read/write buffer capacity given to
// every accepted connection's resp.Conn.
func WithConnBufferSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.connBufferSize = n
		}
	}
}

// WithConnReadLimit bounds the Bulk/Array length a connection will accept
// before failing the frame with resp.ErrTooLarge.
func WithConnReadLimit(n int64) Option {
	return func(c *Config) {
		c.connReadLimit = n
	}
}

func (c Config) respOptions() []resp.Option {
	opts := []resp.Option{resp.WithInitialBufferSize(c.connBufferSize)}
	if c.connReadLimit > 0 {
		opts = append(opts, resp.WithReadLimit(c.connReadLimit))
	}
	return opts
}
