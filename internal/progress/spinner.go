package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const (
	defaultFrameIntervalConstant = 100 * time.Millisecond
	spinnerLineTemplateConstant  = "\r%s %s"
	lineClearSequenceConstant    = "\r\x1b[2K"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerConfiguration controls spinner construction.
type SpinnerConfiguration struct {
	// Writer receives the animation frames. Nil discards them.
	Writer io.Writer
	// Label is the text shown beside the animation frames.
	Label string
	// FrameInterval is the delay between frames. Zero selects the default.
	FrameInterval time.Duration
}

// Spinner animates an in-progress label on a single console row.
type Spinner struct {
	writer        io.Writer
	frameInterval time.Duration

	stateGuard    sync.Mutex
	label         string
	running       bool
	stopChannel   chan struct{}
	stoppedSignal chan struct{}
}

// NewSpinner builds a Spinner from the configuration, substituting io.Discard
// for a missing writer and the default interval for a missing one.
func NewSpinner(configuration SpinnerConfiguration) *Spinner {
	spinnerWriter := configuration.Writer
	if spinnerWriter == nil {
		spinnerWriter = io.Discard
	}
	frameInterval := configuration.FrameInterval
	if frameInterval <= 0 {
		frameInterval = defaultFrameIntervalConstant
	}
	return &Spinner{
		writer:        spinnerWriter,
		frameInterval: frameInterval,
		label:         configuration.Label,
	}
}

// Start begins the animation. Starting a running spinner has no effect. The
// first frame is written before any ticker delay so short-lived work still
// shows feedback.
func (spinner *Spinner) Start() {
	spinner.stateGuard.Lock()
	defer spinner.stateGuard.Unlock()
	if spinner.running {
		return
	}
	spinner.running = true
	spinner.stopChannel = make(chan struct{})
	spinner.stoppedSignal = make(chan struct{})
	go spinner.animate(spinner.stopChannel, spinner.stoppedSignal)
}

// Stop halts the animation and clears the spinner row. Stopping an idle
// spinner has no effect. Stop returns only after the animation goroutine has
// finished, so no frame lands after the row is cleared.
func (spinner *Spinner) Stop() {
	spinner.stateGuard.Lock()
	if !spinner.running {
		spinner.stateGuard.Unlock()
		return
	}
	spinner.running = false
	close(spinner.stopChannel)
	stoppedSignal := spinner.stoppedSignal
	spinner.stateGuard.Unlock()

	<-stoppedSignal
	fmt.Fprint(spinner.writer, lineClearSequenceConstant)
}

// SetLabel replaces the text shown beside the animation frames. The next
// frame picks it up.
func (spinner *Spinner) SetLabel(label string) {
	spinner.stateGuard.Lock()
	defer spinner.stateGuard.Unlock()
	spinner.label = label
}

func (spinner *Spinner) animate(stopChannel <-chan struct{}, stoppedSignal chan<- struct{}) {
	defer close(stoppedSignal)

	frameTicker := time.NewTicker(spinner.frameInterval)
	defer frameTicker.Stop()

	frameIndex := 0
	spinner.renderFrame(frameIndex)
	for {
		select {
		case <-stopChannel:
			return
		case <-frameTicker.C:
			frameIndex++
			spinner.renderFrame(frameIndex)
		}
	}
}

func (spinner *Spinner) renderFrame(frameIndex int) {
	spinner.stateGuard.Lock()
	currentLabel := spinner.label
	spinner.stateGuard.Unlock()

	animationFrame := spinnerFrames[frameIndex%len(spinnerFrames)]
	fmt.Fprintf(spinner.writer, spinnerLineTemplateConstant, animationFrame, currentLabel)
}
