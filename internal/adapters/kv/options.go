package kv

// Opts holds backend settings.
type Opts struct {
	DSN string
}

// Option mutates Opts.
type Option func(*Opts)

// WithDSN sets the data source name (file path for SQLite, URL for Postgres).
func WithDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}
