package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "ColorModesDefaultAuto",
			defaultChoice:  "auto",
			choices:        []string{"auto", "always", "never"},
			description:    "Control colored output.",
			expectedOutput: "`<AUTO|always|never>` Control colored output.",
		},
		{
			name:           "LogFormatsDefaultStructured",
			defaultChoice:  "structured",
			choices:        []string{"structured", "console"},
			description:    "Override the configured log format.",
			expectedOutput: "`<STRUCTURED|console>` Override the configured log format.",
		},
		{
			name:           "EmptyDescriptionOmitsTrailingText",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			description:    "   ",
			expectedOutput: "`<structured|CONSOLE>`",
		},
		{
			name:           "UnknownDefaultLeavesChoicesLowercase",
			defaultChoice:  "json",
			choices:        []string{"structured", "console"},
			description:    "Pick an output encoding.",
			expectedOutput: "`<structured|console>` Pick an output encoding.",
		},
		{
			name:           "DuplicatesAndPaddingCollapse",
			defaultChoice:  "never",
			choices:        []string{" never ", "never", " always "},
			description:    "Choose a color policy.",
			expectedOutput: "`<NEVER|always>` Choose a color policy.",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}
