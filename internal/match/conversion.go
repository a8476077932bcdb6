package match

import (
	"go/types"
)

// Conversion classifies a Go conversion T(x) by what it takes to express
// it in TypeScript.
type Conversion int

const (
	// ConversionNone means source and target print as the same TypeScript
	// type; the operand is printed unchanged.
	ConversionNone Conversion = iota
	// ConversionTruncate converts a floating point value to an integer.
	ConversionTruncate
	// ConversionRuneToString converts a code point to a string.
	ConversionRuneToString
	// ConversionBytesToString decodes a byte slice.
	ConversionBytesToString
	// ConversionStringToBytes encodes a string.
	ConversionStringToBytes
	// ConversionCast needs a type assertion.
	ConversionCast
)

const (
	VerdictNone          = "none"
	VerdictTruncate      = "truncate"
	VerdictRuneToString  = "rune_to_string"
	VerdictBytesToString = "bytes_to_string"
	VerdictStringToBytes = "string_to_bytes"
	VerdictCast          = "cast"
)

// String returns the verdict name.
func (c Conversion) String() string {
	switch c {
	case ConversionNone:
		return VerdictNone
	case ConversionTruncate:
		return VerdictTruncate
	case ConversionRuneToString:
		return VerdictRuneToString
	case ConversionBytesToString:
		return VerdictBytesToString
	case ConversionStringToBytes:
		return VerdictStringToBytes
	case ConversionCast:
		return VerdictCast
	default:
		return "unknown"
	}
}

// ClassifyConversion classifies the conversion of a source value to target.
func ClassifyConversion(source, target types.Type) Conversion {
	if source == nil || target == nil {
		return ConversionCast
	}

	switch {
	case IsNumericType(source) && IsIntegerType(target):
		if IsIntegerType(source) {
			return ConversionNone
		}

		return ConversionTruncate

	case IsNumericType(source) && IsNumericType(target):
		return ConversionNone

	case IsIntegerType(source) && IsStringType(target):
		return ConversionRuneToString

	case IsByteSlice(source) && IsStringType(target):
		return ConversionBytesToString

	case IsStringType(source) && IsByteSlice(target):
		return ConversionStringToBytes

	case IsStringType(source) && IsStringType(target):
		return ConversionNone

	case isBool(source) && isBool(target):
		return ConversionNone

	case types.Identical(source.Underlying(), target.Underlying()):
		// named type over the same representation
		return ConversionNone

	default:
		return ConversionCast
	}
}

// IsNumericType reports whether t is a numeric basic type.
func IsNumericType(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsNumeric != 0
}

// IsIntegerType reports whether t is an integer basic type.
func IsIntegerType(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsInteger != 0
}

// IsStringType reports whether t is a string type.
func IsStringType(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsString != 0
}

// IsByteSlice reports whether t is a []byte.
func IsByteSlice(t types.Type) bool {
	slice, ok := t.Underlying().(*types.Slice)
	if !ok {
		return false
	}

	elem, ok := slice.Elem().Underlying().(*types.Basic)

	return ok && elem.Kind() == types.Byte
}

func isBool(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsBoolean != 0
}
