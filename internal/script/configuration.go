package script

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	scriptPathRequiredMessageConstant  = "script path must be provided"
	scriptLoadErrorTemplateConstant    = "failed to load script: %w"
	scriptParseErrorTemplateConstant   = "failed to parse script: %w"
	scriptEmptyStepsMessageConstant    = "script must define at least one step"
	stepCommandMissingTemplateConstant = "script step %d missing a command template"
	stepLabelTemplateConstant          = "step %d"
)

// Configuration describes the ordered playbook steps and shared shell
// settings loaded from YAML.
type Configuration struct {
	Shell ShellConfiguration  `yaml:"shell" json:"shell"`
	Steps []StepConfiguration `yaml:"steps" json:"steps"`
}

// ShellConfiguration overrides the interpreter and environment applied to
// every step. Zero fields keep the executor defaults.
type ShellConfiguration struct {
	Path             string            `yaml:"path" json:"path"`
	Arguments        []string          `yaml:"arguments" json:"arguments"`
	WorkingDirectory string            `yaml:"working_directory" json:"working_directory"`
	Environment      map[string]string `yaml:"environment" json:"environment"`
}

// StepConfiguration describes one labeled command template. Arguments fill
// the template's {} placeholders in order; a list argument expands to one
// quoted word per element.
type StepConfiguration struct {
	Label            string            `yaml:"label" json:"label"`
	Command          string            `yaml:"command" json:"command"`
	Arguments        []any             `yaml:"arguments" json:"arguments"`
	TimeoutSeconds   int               `yaml:"timeout_seconds" json:"timeout_seconds"`
	AllowFailure     bool              `yaml:"allow_failure" json:"allow_failure"`
	WorkingDirectory string            `yaml:"working_directory" json:"working_directory"`
	Environment      map[string]string `yaml:"environment" json:"environment"`
}

// LoadScript reads a playbook definition from disk and validates it.
func LoadScript(filePath string) (Configuration, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Configuration{}, errors.New(scriptPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Configuration{}, fmt.Errorf(scriptLoadErrorTemplateConstant, readError)
	}

	return ParseScript(contentBytes)
}

// ParseScript decodes a playbook definition and normalizes it: commands must
// be present, and steps without a label receive a positional one.
func ParseScript(content []byte) (Configuration, error) {
	var configuration Configuration
	if unmarshalError := yaml.Unmarshal(content, &configuration); unmarshalError != nil {
		return Configuration{}, fmt.Errorf(scriptParseErrorTemplateConstant, unmarshalError)
	}

	if len(configuration.Steps) == 0 {
		return Configuration{}, errors.New(scriptEmptyStepsMessageConstant)
	}

	for stepIndex := range configuration.Steps {
		stepNumber := stepIndex + 1
		configuration.Steps[stepIndex].Command = strings.TrimSpace(configuration.Steps[stepIndex].Command)
		if len(configuration.Steps[stepIndex].Command) == 0 {
			return Configuration{}, fmt.Errorf(stepCommandMissingTemplateConstant, stepNumber)
		}
		configuration.Steps[stepIndex].Label = strings.TrimSpace(configuration.Steps[stepIndex].Label)
		if len(configuration.Steps[stepIndex].Label) == 0 {
			configuration.Steps[stepIndex].Label = fmt.Sprintf(stepLabelTemplateConstant, stepNumber)
		}
	}

	return configuration, nil
}
