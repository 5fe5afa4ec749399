package quote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/shx/internal/quoting"
)

const (
	commandUseConstant                   = "quote [values...]"
	commandShortDescriptionConstant      = "Print safely quoted values or a compiled command template"
	commandLongDescriptionConstant       = "quote prints each value quoted for POSIX shells. With --template the values fill the template's {} placeholders and the compiled command line is printed instead."
	templateFlagNameConstant             = "template"
	templateFlagUsageConstant            = "Command template whose {} placeholders receive the quoted values."
	valuesRequiredMessageConstant        = "at least one value required"
	templateCompileErrorTemplateConstant = "unable to compile command template: %w"
	quotedValuesSeparatorConstant        = " "
)

// CommandBuilder assembles the quote command.
type CommandBuilder struct{}

// Build constructs the quote command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	quoteCommand := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	quoteCommand.Flags().String(templateFlagNameConstant, "", templateFlagUsageConstant)

	return quoteCommand, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if command.Flags().Changed(templateFlagNameConstant) {
		commandTemplate, _ := command.Flags().GetString(templateFlagNameConstant)

		templateValues := make([]any, 0, len(arguments))
		for _, argument := range arguments {
			templateValues = append(templateValues, argument)
		}

		compiledCommandLine, compileError := quoting.CompileTemplate(commandTemplate, templateValues...)
		if compileError != nil {
			return fmt.Errorf(templateCompileErrorTemplateConstant, compileError)
		}

		fmt.Fprintln(command.OutOrStdout(), compiledCommandLine)
		return nil
	}

	if len(arguments) == 0 {
		if helpError := command.Help(); helpError != nil {
			return helpError
		}
		return errors.New(valuesRequiredMessageConstant)
	}

	quotedValues := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		quotedValues = append(quotedValues, quoting.QuoteText(argument))
	}

	fmt.Fprintln(command.OutOrStdout(), strings.Join(quotedValues, quotedValuesSeparatorConstant))
	return nil
}
