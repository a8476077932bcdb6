package common

// Shared string constants.
const (
	// UnknownStr is printed for enum values without a name.
	UnknownStr = "unknown"
	// AnyTypeStr is the TypeScript top type used for erased or untyped values.
	AnyTypeStr = "any"
)
