// Package literal maps JSON scalars to typed RDF literals.
package literal

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/piprate/json-gold/ld"

	"github.com/mcncl/json2rdf/internal/errors"
	"github.com/mcncl/json2rdf/internal/models"
)

// Datatype IRIs assigned to JSON scalars.
const (
	Boolean = ld.XSDBoolean
	Integer = ld.XSDInteger
	Double  = ld.XSDDouble
	String  = ld.XSDString
)

// Literal is the lexical form and datatype of an RDF literal.
type Literal struct {
	Lexical  string
	Datatype string
}

// Node returns the json-gold literal node for l.
func (l Literal) Node() ld.Literal {
	return ld.NewLiteral(l.Lexical, l.Datatype, "")
}

// String returns l in N-Triples notation.
func (l Literal) String() string {
	return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype)
}

// FromValue maps a JSON scalar to a literal. ok is false for null, arrays
// and objects, none of which produce a literal. A number that is neither an
// int64 nor a finite float64 returns errors.ErrNumberRange.
func FromValue(v models.Value) (lit Literal, ok bool, err error) {
	switch v.Kind {
	case models.Bool:
		return Literal{Lexical: strconv.FormatBool(v.Bool), Datatype: Boolean}, true, nil
	case models.String:
		return Literal{Lexical: v.Str, Datatype: String}, true, nil
	case models.Number:
		lit, err := FromNumber(v.Number)
		if err != nil {
			return Literal{}, false, err
		}
		return lit, true, nil
	default:
		return Literal{}, false, nil
	}
}

// FromNumber maps the lexical form of a JSON number to an integer or double
// literal. Values without a fractional part that fit in an int64 are
// integers, whatever their notation, and keep every digit of the input.
func FromNumber(lexical string) (Literal, error) {
	if i, err := strconv.ParseInt(lexical, 10, 64); err == nil {
		return Literal{Lexical: strconv.FormatInt(i, 10), Datatype: Integer}, nil
	}

	f, err := strconv.ParseFloat(lexical, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Literal{}, fmt.Errorf("%w: %q", errors.ErrNumberRange, lexical)
	}

	if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
		// float64 rounds past 2^53, so decide integrality on the exact value.
		if r, ok := new(big.Rat).SetString(lexical); ok && r.IsInt() && r.Num().IsInt64() {
			return Literal{Lexical: r.Num().String(), Datatype: Integer}, nil
		}
	}
	return Literal{Lexical: strconv.FormatFloat(f, 'g', -1, 64), Datatype: Double}, nil
}
