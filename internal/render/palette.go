package render

import "github.com/charmbracelet/lipgloss"

const (
	successTagTextConstant = "OK"
	skippedTagTextConstant = "SKIPPED"
	errorTagTextConstant   = "ERROR"
	timeoutTagTextConstant = "TIMEOUT"
	successColorConstant   = "2"
	warningColorConstant   = "3"
	errorColorConstant     = "1"
	accentColorConstant    = "6"
	dimColorConstant       = "8"
)

// Palette holds pre-computed lipgloss styles for console output. With color
// disabled every style renders plain text.
type Palette struct {
	Success lipgloss.Style
	Skipped lipgloss.Style
	Error   lipgloss.Style
	Timeout lipgloss.Style
	Accent  lipgloss.Style
	Dim     lipgloss.Style
}

// NewPalette builds the style set, honoring the color switch.
func NewPalette(enableColor bool) *Palette {
	if !enableColor {
		plainStyle := lipgloss.NewStyle()
		return &Palette{
			Success: plainStyle,
			Skipped: plainStyle,
			Error:   plainStyle,
			Timeout: plainStyle,
			Accent:  plainStyle,
			Dim:     plainStyle,
		}
	}
	return &Palette{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(successColorConstant)).Bold(true),
		Skipped: lipgloss.NewStyle().Foreground(lipgloss.Color(warningColorConstant)).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(errorColorConstant)).Bold(true),
		Timeout: lipgloss.NewStyle().Foreground(lipgloss.Color(errorColorConstant)).Bold(true),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(accentColorConstant)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(dimColorConstant)),
	}
}

// SuccessTag renders the tag shown for succeeded actions.
func (palette *Palette) SuccessTag() string {
	return palette.Success.Render(successTagTextConstant)
}

// SkippedTag renders the tag shown for skipped actions.
func (palette *Palette) SkippedTag() string {
	return palette.Skipped.Render(skippedTagTextConstant)
}

// ErrorTag renders the tag shown for failed actions.
func (palette *Palette) ErrorTag() string {
	return palette.Error.Render(errorTagTextConstant)
}

// TimeoutTag renders the tag shown for timed out actions.
func (palette *Palette) TimeoutTag() string {
	return palette.Timeout.Render(timeoutTagTextConstant)
}
