package ir

// Version constants for the value model and canonical encoding.
const (
	// ValueModelVersion is the schema version of the Value/Triple model.
	ValueModelVersion = "1"

	// CanonicalEncodingVersion is the version of the canonical encoding
	// rules in canonical.go. Bump alongside any change that would alter
	// an existing value's canonical bytes.
	CanonicalEncodingVersion = "1"
)
