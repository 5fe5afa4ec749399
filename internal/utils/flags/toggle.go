package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueTextConstant            = "true"
	toggleFalseTextConstant           = "false"
	toggleTypeNameConstant            = "bool"
	toggleEnabledPlaceholderConstant  = "<YES|no>"
	toggleDisabledPlaceholderConstant = "<yes|NO>"
	toggleValueErrorTemplateConstant  = "unrecognized toggle value %q; expected a yes or no literal"
	longFlagPrefixConstant            = "--"
	shortFlagPrefixConstant           = "-"
	flagValueSeparatorConstant        = "="
	argumentTerminatorConstant        = "--"
)

// toggleLiterals maps every accepted spelling, lowercased, to its boolean
// meaning.
var toggleLiterals = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "on": true, "1": true,
	"false": false, "f": false, "no": false, "n": false, "off": false, "0": false,
}

// toggleRegistry remembers registered toggle names so argument normalization
// can recognize them before parsing starts.
type toggleRegistry struct {
	mutex      sync.RWMutex
	names      map[string]struct{}
	shorthands map[string]struct{}
}

var registeredToggles = &toggleRegistry{
	names:      map[string]struct{}{},
	shorthands: map[string]struct{}{},
}

func (registry *toggleRegistry) record(name string, shorthand string) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	registry.names[name] = struct{}{}
	if len(shorthand) > 0 {
		registry.shorthands[shorthand] = struct{}{}
	}
}

func (registry *toggleRegistry) knownName(name string) bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	_, known := registry.names[name]
	return known
}

func (registry *toggleRegistry) knownShorthand(shorthand string) bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	_, known := registry.shorthands[shorthand]
	return known
}

// AddToggleFlag registers a yes/no style boolean flag. The bare form counts
// as true, explicit values accept the usual boolean spellings in any case,
// and the usage line capitalizes the default choice.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flagValue := newToggleValue(defaultValue, target)
	if len(shorthand) > 0 {
		flagSet.VarP(flagValue, name, shorthand, usage)
	} else {
		flagSet.Var(flagValue, name, usage)
	}

	registeredFlag := flagSet.Lookup(name)
	if registeredFlag == nil {
		return
	}
	registeredFlag.NoOptDefVal = toggleTrueTextConstant
	registeredFlag.Usage = describeToggleUsage(usage, defaultValue)

	registeredToggles.record(name, shorthand)
}

// NormalizeToggleArguments rewrites "--flag value" pairs for registered
// toggles into "--flag=value" so pflag does not treat the value as a
// positional argument. Arguments after a bare "--" pass through untouched.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		currentArgument := arguments[argumentIndex]
		if currentArgument == argumentTerminatorConstant {
			normalized = append(normalized, arguments[argumentIndex:]...)
			break
		}

		followingValue := ""
		followingAvailable := argumentIndex+1 < len(arguments)
		if followingAvailable {
			followingValue = arguments[argumentIndex+1]
		}

		rewrittenArgument, absorbedFollowing := normalizeToggleArgument(currentArgument, followingValue, followingAvailable)
		normalized = append(normalized, rewrittenArgument)
		if absorbedFollowing {
			argumentIndex++
		}
	}

	return normalized
}

// normalizeToggleArgument attaches the following argument as an inline value
// when the current argument names a registered toggle without one.
func normalizeToggleArgument(currentArgument string, followingValue string, followingAvailable bool) (string, bool) {
	flagName, isShorthand, hasInlineValue := splitFlagArgument(currentArgument)
	if len(flagName) == 0 || hasInlineValue {
		return currentArgument, false
	}

	registered := registeredToggles.knownName(flagName)
	if isShorthand {
		registered = registeredToggles.knownShorthand(flagName)
	}
	if !registered {
		return currentArgument, false
	}

	if !followingAvailable || strings.HasPrefix(followingValue, shortFlagPrefixConstant) {
		return currentArgument, false
	}

	return currentArgument + flagValueSeparatorConstant + followingValue, true
}

// splitFlagArgument extracts the flag name from a long or single-letter
// shorthand argument. Grouped shorthands are left alone.
func splitFlagArgument(argument string) (flagName string, isShorthand bool, hasInlineValue bool) {
	if strings.HasPrefix(argument, longFlagPrefixConstant) {
		remainder := strings.TrimPrefix(argument, longFlagPrefixConstant)
		name, _, found := strings.Cut(remainder, flagValueSeparatorConstant)
		return name, false, found
	}

	if strings.HasPrefix(argument, shortFlagPrefixConstant) {
		remainder := strings.TrimPrefix(argument, shortFlagPrefixConstant)
		name, _, found := strings.Cut(remainder, flagValueSeparatorConstant)
		if len(name) != 1 {
			return "", true, found
		}
		return name, true, found
	}

	return "", false, false
}

// toggleValue implements pflag.Value over the literal table, mirroring every
// parsed value into the bound target.
type toggleValue struct {
	enabled     bool
	boundTarget *bool
}

func newToggleValue(defaultValue bool, target *bool) *toggleValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleValue{enabled: defaultValue, boundTarget: target}
}

func (value *toggleValue) Set(rawValue string) error {
	literal := strings.ToLower(strings.TrimSpace(rawValue))
	if len(literal) == 0 {
		literal = toggleTrueTextConstant
	}

	parsedValue, recognized := toggleLiterals[literal]
	if !recognized {
		return fmt.Errorf(toggleValueErrorTemplateConstant, rawValue)
	}

	value.enabled = parsedValue
	if value.boundTarget != nil {
		*value.boundTarget = parsedValue
	}
	return nil
}

func (value *toggleValue) String() string {
	if value != nil && value.enabled {
		return toggleTrueTextConstant
	}
	return toggleFalseTextConstant
}

func (value *toggleValue) Type() string {
	return toggleTypeNameConstant
}

func describeToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleDisabledPlaceholderConstant
	if defaultValue {
		placeholder = toggleEnabledPlaceholderConstant
	}

	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf("`%s`", placeholder)
	}
	return fmt.Sprintf("`%s` %s", placeholder, trimmedDescription)
}
