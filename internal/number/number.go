package number

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// MaxSafeInteger is the largest integer I-JSON (RFC 7493) guarantees to
// represent exactly: 2^53-1.
const MaxSafeInteger = 1<<53 - 1

// ErrOutOfRange reports an integer literal outside ±MaxSafeInteger.
var ErrOutOfRange = errors.New("integer out of I-JSON range")

// ToFloat64 converts document numbers to float64.
// Strings, booleans and json.Number values that fail to parse are not numbers.
func ToFloat64(value any) (float64, bool) {
	switch current := value.(type) {
	case int:
		return float64(current), true
	case int8:
		return float64(current), true
	case int16:
		return float64(current), true
	case int32:
		return float64(current), true
	case int64:
		return float64(current), true
	case uint:
		return float64(current), true
	case uint8:
		return float64(current), true
	case uint16:
		return float64(current), true
	case uint32:
		return float64(current), true
	case uint64:
		return float64(current), true
	case float32:
		return float64(current), true
	case float64:
		return current, true
	case json.Number:
		parsed, err := current.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// IsNumber reports whether value is a document number.
func IsNumber(value any) bool {
	_, ok := ToFloat64(value)
	return ok
}

// Compare orders two document numbers, returning -1, 0 or +1. ok is false
// when either value is not a number. Integers beyond ±MaxSafeInteger, such as
// json.Number text or int64 values, are compared exactly.
func Compare(a, b any) (int, bool) {
	af, ok := ToFloat64(a)
	if !ok {
		return 0, false
	}
	bf, ok := ToFloat64(b)
	if !ok {
		return 0, false
	}
	// Rounding to float64 is monotonic, so only equal results can hide a
	// difference.
	if af != bf || math.Abs(af) <= MaxSafeInteger {
		return cmp.Compare(af, bf), true
	}

	ai, aok := toBigInt(a)
	bi, bok := toBigInt(b)
	if !aok || !bok {
		return 0, true
	}
	return ai.Cmp(bi), true
}

// toBigInt returns the exact integer value of an integral number.
func toBigInt(value any) (*big.Int, bool) {
	switch current := value.(type) {
	case int:
		return big.NewInt(int64(current)), true
	case int8:
		return big.NewInt(int64(current)), true
	case int16:
		return big.NewInt(int64(current)), true
	case int32:
		return big.NewInt(int64(current)), true
	case int64:
		return big.NewInt(current), true
	case uint:
		return new(big.Int).SetUint64(uint64(current)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(current)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(current)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(current)), true
	case uint64:
		return new(big.Int).SetUint64(current), true
	case float32:
		return floatToBigInt(float64(current))
	case float64:
		return floatToBigInt(current)
	case json.Number:
		return new(big.Int).SetString(string(current), 10)
	default:
		return nil, false
	}
}

func floatToBigInt(f float64) (*big.Int, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) || math.Trunc(f) != f {
		return nil, false
	}
	i, _ := big.NewFloat(f).Int(nil)
	return i, true
}

// IsSafeInteger reports whether n lies within ±MaxSafeInteger.
func IsSafeInteger(n int64) bool {
	return n >= -MaxSafeInteger && n <= MaxSafeInteger
}

// ParseSafeInteger parses a decimal integer literal and rejects values
// outside the I-JSON range.
func ParseSafeInteger(literal string) (int64, error) {
	n, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s", ErrOutOfRange, literal)
		}
		return 0, err
	}
	if !IsSafeInteger(n) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, literal)
	}
	return n, nil
}
