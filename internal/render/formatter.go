package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/temirov/shx/internal/execshell"
)

const (
	defaultSuccessLabelConstant        = "ok"
	defaultErrorLabelConstant          = "error"
	defaultMaximumOutputBytesConstant  = 8192
	defaultMaximumPreviewBytesConstant = 256
	commandPrefixConstant              = "$ "
	exitSummaryTemplateConstant        = "%s exit %d in %s"
	standardOutputHeadingConstant      = "stdout:"
	standardErrorHeadingConstant       = "stderr:"
	outputIndentConstant               = "  "
	newlineConstant                    = "\n"
	truncationNoticeTemplateConstant   = "... (%d more bytes)"
	summaryDurationRoundingConstant    = time.Millisecond
)

// Options controls how execution results are rendered.
type Options struct {
	// EnableColor applies the palette styles to annotations.
	EnableColor bool
	// Annotate prefixes the block with the command line, an exit summary, and
	// per-stream headings. Without it only the captured content is rendered.
	Annotate bool
	// SuccessLabel and ErrorLabel prefix the exit summary line.
	SuccessLabel string
	ErrorLabel   string
	// MaximumOutputBytes caps how much of each text stream is rendered.
	MaximumOutputBytes int
	// MaximumPreviewBytes caps the hex dump preview of binary streams.
	MaximumPreviewBytes int
}

// DefaultOptions returns annotated rendering with ok/error labels and modest
// byte limits for captured output.
func DefaultOptions() Options {
	return Options{
		Annotate:            true,
		SuccessLabel:        defaultSuccessLabelConstant,
		ErrorLabel:          defaultErrorLabelConstant,
		MaximumOutputBytes:  defaultMaximumOutputBytesConstant,
		MaximumPreviewBytes: defaultMaximumPreviewBytesConstant,
	}
}

func (options Options) withDefaults() Options {
	if len(options.SuccessLabel) == 0 {
		options.SuccessLabel = defaultSuccessLabelConstant
	}
	if len(options.ErrorLabel) == 0 {
		options.ErrorLabel = defaultErrorLabelConstant
	}
	if options.MaximumOutputBytes <= 0 {
		options.MaximumOutputBytes = defaultMaximumOutputBytesConstant
	}
	if options.MaximumPreviewBytes <= 0 {
		options.MaximumPreviewBytes = defaultMaximumPreviewBytesConstant
	}
	return options
}

type streamSection struct {
	heading string
	content string
}

// FormatExecutionResult renders a decoded execution result as a readable block.
func FormatExecutionResult(result execshell.ExecutionResult, options Options) string {
	options = options.withDefaults()
	sections := []streamSection{
		{heading: standardOutputHeadingConstant, content: limitText(result.StandardOutput, options.MaximumOutputBytes)},
		{heading: standardErrorHeadingConstant, content: limitText(result.StandardError, options.MaximumOutputBytes)},
	}
	return renderResultBlock(result.CommandLine, result.ExitCode, result.Duration, sections, options)
}

// FormatRawExecutionResult renders raw captured bytes, switching to a hex
// dump preview for any stream that is not printable UTF-8 text.
func FormatRawExecutionResult(result execshell.RawExecutionResult, options Options) string {
	options = options.withDefaults()
	sections := []streamSection{
		{heading: standardOutputHeadingConstant, content: renderStreamBytes(result.StandardOutput, options)},
		{heading: standardErrorHeadingConstant, content: renderStreamBytes(result.StandardError, options)},
	}
	return renderResultBlock(result.CommandLine, result.ExitCode, result.Duration, sections, options)
}

// FormatCommandFailure renders the execution result carried by a non-zero
// exit failure.
func FormatCommandFailure(failedError execshell.CommandFailedError, options Options) string {
	return FormatExecutionResult(failedError.Result, options)
}

func renderResultBlock(commandLine string, exitCode int, duration time.Duration, sections []streamSection, options Options) string {
	var blockLines []string

	if options.Annotate {
		palette := NewPalette(options.EnableColor)
		blockLines = append(blockLines, palette.Accent.Render(commandPrefixConstant+commandLine))

		summaryLabel := options.SuccessLabel
		summaryStyle := palette.Success
		if exitCode != 0 {
			summaryLabel = options.ErrorLabel
			summaryStyle = palette.Error
		}
		summaryLine := fmt.Sprintf(exitSummaryTemplateConstant, summaryLabel, exitCode, duration.Round(summaryDurationRoundingConstant))
		blockLines = append(blockLines, summaryStyle.Render(summaryLine))

		for _, section := range sections {
			if len(section.content) == 0 {
				continue
			}
			blockLines = append(blockLines, palette.Dim.Render(section.heading))
			blockLines = append(blockLines, indentText(section.content))
		}
		return strings.Join(blockLines, newlineConstant)
	}

	for _, section := range sections {
		if len(section.content) == 0 {
			continue
		}
		blockLines = append(blockLines, section.content)
	}
	return strings.Join(blockLines, newlineConstant)
}

func renderStreamBytes(streamData []byte, options Options) string {
	if len(streamData) == 0 {
		return ""
	}
	if isPrintableText(streamData) {
		return limitText(string(streamData), options.MaximumOutputBytes)
	}
	return HexDumpPreview(streamData, options.MaximumPreviewBytes)
}

// isPrintableText reports whether data renders safely as terminal text.
func isPrintableText(streamData []byte) bool {
	return utf8.Valid(streamData) && bytes.IndexByte(streamData, 0) < 0
}

// limitText caps text at maximumBytes, backing up to a rune boundary and
// appending a notice about the elided remainder.
func limitText(text string, maximumBytes int) string {
	if len(text) <= maximumBytes {
		return text
	}
	cutPosition := maximumBytes
	for cutPosition > 0 && !utf8.RuneStart(text[cutPosition]) {
		cutPosition--
	}
	elidedByteCount := len(text) - cutPosition
	return text[:cutPosition] + newlineConstant + fmt.Sprintf(truncationNoticeTemplateConstant, elidedByteCount)
}

func indentText(text string) string {
	textLines := strings.Split(text, newlineConstant)
	for lineIndex := range textLines {
		textLines[lineIndex] = outputIndentConstant + textLines[lineIndex]
	}
	return strings.Join(textLines, newlineConstant)
}
