package quoting

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	placeholderTokenConstant      = "{}"
	sequenceSeparatorConstant     = " "
	absorbableSpaceConstant       = " "
	fragmentArityTemplateConstant = "template fragment count %d does not match value count %d (expected %d fragments)"
)

// ArgumentCountError reports a fragment list that cannot interleave the
// provided values.
type ArgumentCountError struct {
	FragmentCount int
	ValueCount    int
}

// Error describes the arity mismatch between fragments and values.
func (countError ArgumentCountError) Error() string {
	return fmt.Sprintf(fragmentArityTemplateConstant, countError.FragmentCount, countError.ValueCount, countError.ValueCount+1)
}

// CompileTemplate splits template on {} placeholders and compiles the pieces
// with CompileFragments. The number of placeholders must equal the number of
// values.
func CompileTemplate(template string, values ...any) (string, error) {
	return CompileFragments(strings.Split(template, placeholderTokenConstant), values)
}

// CompileFragments interleaves literal fragments with quoted values into a
// single command line.
//
// Fragments must number exactly one more than values. A scalar value
// substitutes as one quoted word. A sequence value substitutes as its
// elements quoted individually and joined by single spaces. An empty
// sequence contributes nothing and additionally absorbs one adjacent space,
// preferring the space that opens the following fragment and falling back to
// the space that closes the compiled prefix, so that surrounding words keep
// exactly one separator between them.
func CompileFragments(fragments []string, values []any) (string, error) {
	if len(fragments) != len(values)+1 {
		return "", ArgumentCountError{FragmentCount: len(fragments), ValueCount: len(values)}
	}

	compiledCommand := fragments[0]
	for valueIndex, value := range values {
		followingFragment := fragments[valueIndex+1]

		if isSequenceValue(value) {
			quotedElements, sequenceError := quoteSequenceElements(value)
			if sequenceError != nil {
				return "", sequenceError
			}
			if len(quotedElements) == 0 {
				compiledCommand, followingFragment = absorbSeparator(compiledCommand, followingFragment)
				compiledCommand += followingFragment
				continue
			}
			compiledCommand += strings.Join(quotedElements, sequenceSeparatorConstant)
			compiledCommand += followingFragment
			continue
		}

		quotedValue, quoteError := QuoteScalar(value)
		if quoteError != nil {
			return "", quoteError
		}
		compiledCommand += quotedValue
		compiledCommand += followingFragment
	}
	return compiledCommand, nil
}

// isSequenceValue reports whether value expands element by element. Strings
// and fmt.Stringer implementations stay scalar even though some satisfy the
// slice kind underneath.
func isSequenceValue(value any) bool {
	if value == nil {
		return false
	}
	if _, isString := value.(string); isString {
		return false
	}
	if _, isStringer := value.(fmt.Stringer); isStringer {
		return false
	}
	reflectedValue := reflect.ValueOf(value)
	switch reflectedValue.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

func quoteSequenceElements(value any) ([]string, error) {
	reflectedValue := reflect.ValueOf(value)
	quotedElements := make([]string, 0, reflectedValue.Len())
	for elementIndex := 0; elementIndex < reflectedValue.Len(); elementIndex++ {
		quotedElement, quoteError := QuoteScalar(reflectedValue.Index(elementIndex).Interface())
		if quoteError != nil {
			return nil, quoteError
		}
		quotedElements = append(quotedElements, quotedElement)
	}
	return quotedElements, nil
}

func absorbSeparator(compiledPrefix string, followingFragment string) (string, string) {
	if strings.HasPrefix(followingFragment, absorbableSpaceConstant) {
		return compiledPrefix, strings.TrimPrefix(followingFragment, absorbableSpaceConstant)
	}
	if strings.HasSuffix(compiledPrefix, absorbableSpaceConstant) {
		return strings.TrimSuffix(compiledPrefix, absorbableSpaceConstant), followingFragment
	}
	return compiledPrefix, followingFragment
}
