package flags

import (
	"fmt"
	"strings"
)

const (
	choiceListSeparatorConstant       = "|"
	choicePlaceholderTemplateConstant = "<%s>"
	choiceBareUsageTemplateConstant   = "`%s`"
	choiceUsageTemplateConstant       = "`%s` %s"
)

// FormatChoiceUsage renders a usage string listing the accepted values with
// the default spelled in capitals, matching the toggle placeholder style.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := fmt.Sprintf(choicePlaceholderTemplateConstant, strings.Join(emphasizeDefault(defaultChoice, choices), choiceListSeparatorConstant))

	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(choiceBareUsageTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageTemplateConstant, placeholder, trimmedDescription)
}

// emphasizeDefault uppercases the default choice and drops blank or repeated
// entries while preserving order.
func emphasizeDefault(defaultChoice string, choices []string) []string {
	loweredDefault := strings.ToLower(strings.TrimSpace(defaultChoice))

	rendered := make([]string, 0, len(choices))
	alreadyListed := make(map[string]struct{}, len(choices))
	for _, choiceCandidate := range choices {
		trimmedChoice := strings.TrimSpace(choiceCandidate)
		if len(trimmedChoice) == 0 {
			continue
		}

		loweredChoice := strings.ToLower(trimmedChoice)
		if _, listed := alreadyListed[loweredChoice]; listed {
			continue
		}
		alreadyListed[loweredChoice] = struct{}{}

		if loweredChoice == loweredDefault {
			rendered = append(rendered, strings.ToUpper(trimmedChoice))
			continue
		}
		rendered = append(rendered, trimmedChoice)
	}

	return rendered
}
