package quoting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	emptyArgumentLiteralConstant       = "''"
	singleQuoteLiteralConstant         = "'"
	emptyQuotePairLiteralConstant      = "''"
	safeTextExpressionConstant         = `^[A-Za-z0-9,:=_./-]+$`
	singleQuoteRunExpressionConstant   = `'+`
	singleQuoteRunReplacementConstant  = `'"${0}"'`
	unsupportedValueTemplateConstant   = "unsupported template value of type %T"
	shortestFloatFormatConstant        = 'g'
	shortestFloatPrecisionConstant     = -1
	sixtyFourBitFloatSizeConstant      = 64
	thirtyTwoBitFloatSizeConstant      = 32
	decimalIntegerBaseConstant         = 10
)

var (
	safeTextPattern       = regexp.MustCompile(safeTextExpressionConstant)
	singleQuoteRunPattern = regexp.MustCompile(singleQuoteRunExpressionConstant)
)

// UnsupportedValueError reports a template value outside the supported scalar
// and sequence forms.
type UnsupportedValueError struct {
	Value any
}

// Error describes the rejected value by its dynamic type.
func (valueError UnsupportedValueError) Error() string {
	return fmt.Sprintf(unsupportedValueTemplateConstant, valueError.Value)
}

// QuoteText escapes text as a single POSIX shell word.
//
// Empty text becomes an empty pair of single quotes. Text made only of
// letters, digits, commas, colons, equals signs, underscores, periods,
// slashes, and hyphens passes through unchanged. Everything else is wrapped
// in single quotes, with every run of literal single quotes re-emitted inside
// a double-quoted island; redundant empty quote pairs at either end of the
// wrapped form are stripped.
func QuoteText(text string) string {
	if len(text) == 0 {
		return emptyArgumentLiteralConstant
	}
	if safeTextPattern.MatchString(text) {
		return text
	}

	escapedText := singleQuoteRunPattern.ReplaceAllString(text, singleQuoteRunReplacementConstant)
	quotedText := singleQuoteLiteralConstant + escapedText + singleQuoteLiteralConstant
	quotedText = strings.TrimPrefix(quotedText, emptyQuotePairLiteralConstant)
	quotedText = strings.TrimSuffix(quotedText, emptyQuotePairLiteralConstant)
	return quotedText
}

// FormatScalar renders a scalar template value as the text participating in
// quoting. Strings pass through verbatim; booleans, integers, and floating
// point numbers use their canonical decimal renderings; values implementing
// fmt.Stringer contribute their String result. Any other value is rejected
// with UnsupportedValueError.
func FormatScalar(value any) (string, error) {
	switch typedValue := value.(type) {
	case string:
		return typedValue, nil
	case bool:
		return strconv.FormatBool(typedValue), nil
	case int:
		return strconv.Itoa(typedValue), nil
	case int8:
		return strconv.FormatInt(int64(typedValue), decimalIntegerBaseConstant), nil
	case int16:
		return strconv.FormatInt(int64(typedValue), decimalIntegerBaseConstant), nil
	case int32:
		return strconv.FormatInt(int64(typedValue), decimalIntegerBaseConstant), nil
	case int64:
		return strconv.FormatInt(typedValue, decimalIntegerBaseConstant), nil
	case uint:
		return strconv.FormatUint(uint64(typedValue), decimalIntegerBaseConstant), nil
	case uint8:
		return strconv.FormatUint(uint64(typedValue), decimalIntegerBaseConstant), nil
	case uint16:
		return strconv.FormatUint(uint64(typedValue), decimalIntegerBaseConstant), nil
	case uint32:
		return strconv.FormatUint(uint64(typedValue), decimalIntegerBaseConstant), nil
	case uint64:
		return strconv.FormatUint(typedValue, decimalIntegerBaseConstant), nil
	case float32:
		return strconv.FormatFloat(float64(typedValue), shortestFloatFormatConstant, shortestFloatPrecisionConstant, thirtyTwoBitFloatSizeConstant), nil
	case float64:
		return strconv.FormatFloat(typedValue, shortestFloatFormatConstant, shortestFloatPrecisionConstant, sixtyFourBitFloatSizeConstant), nil
	case fmt.Stringer:
		return typedValue.String(), nil
	default:
		return "", UnsupportedValueError{Value: value}
	}
}

// QuoteScalar formats value through FormatScalar and escapes the result with
// QuoteText.
func QuoteScalar(value any) (string, error) {
	formattedValue, formatError := FormatScalar(value)
	if formatError != nil {
		return "", formatError
	}
	return QuoteText(formattedValue), nil
}
