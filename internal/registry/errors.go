package registry

import "errors"

// ErrUnknownURIScheme is returned when a connection URI is not
// well-formed "sys:<kind>://<name>", or names a kind other than
// simple-graph/mem-like, multi-graph/multi-like, or durable.
var ErrUnknownURIScheme = errors.New("registry: unknown uri scheme")
