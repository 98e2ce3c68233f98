// Package value implements the typed values of the configuration. Each value
// points to a field of the configuration data.
package value

type Value interface {
	// String returns a string representation of the value.
	String() string

	// Set a new value from its string representation, e.g. from an
	// environment variable. Returns an error if the string can't be
	// converted.
	Set(string) error

	// Validate the value. The returned error will
	// indicate what is wrong with the current value.
	// Returns nil if the value is OK.
	Validate() error

	// IsEmpty returns whether the value represents an empty
	// representation for that value.
	IsEmpty() bool
}
