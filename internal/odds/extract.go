package odds

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// DefaultTolerance is how far a ratio answer may be from the exact value.
const DefaultTolerance = 1.0

// ErrUnparseable is returned when an answer contains no usable number.
var ErrUnparseable = errors.New("odds: no number in answer")

var (
	ratioPattern  = regexp.MustCompile(`(\d+\.?\d*)\s*:\s*1`)
	numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)
	noise         = strings.NewReplacer("percent", "", "%", "", "outs", "")
)

// ExtractRatio reads "3:1" or "3.5 : 1" from text, falling back to a plain
// number.
func ExtractRatio(text string) (float64, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if m := ratioPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	return ExtractNumber(text)
}

// ExtractNumber reads a number from text. Arithmetic such as "(47-8)/8" is
// evaluated as an expression with nothing in scope; anything else yields
// the first number found.
func ExtractNumber(text string) (float64, bool) {
	text = strings.TrimSpace(noise.Replace(strings.ToLower(text)))
	if text == "" {
		return 0, false
	}

	if isArithmetic(text) {
		if v, ok := evalArithmetic(text); ok {
			return v, true
		}
	}

	m := numberPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isArithmetic(s string) bool {
	return strings.Trim(s, "0123456789+-*/(). ") == ""
}

func evalArithmetic(src string) (float64, bool) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "answer", hcl.InitialPos)
	if diags.HasErrors() {
		return 0, false
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.Number) {
		return 0, false
	}
	f, _ := val.AsBigFloat().Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// CheckRatio reports whether answer is within tolerance of want.
func CheckRatio(answer string, want Ratio, tolerance float64) (bool, error) {
	got, ok := ExtractRatio(answer)
	if !ok {
		return false, ErrUnparseable
	}
	return math.Abs(got-float64(want)) <= tolerance, nil
}

// CheckCount reports whether answer names exactly want.
func CheckCount(answer string, want int) (bool, error) {
	got, ok := ExtractNumber(answer)
	if !ok {
		return false, ErrUnparseable
	}
	return got == float64(want), nil
}
