package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// lipgloss styles shared by the interactive commands.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("57")).
			Bold(true).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			Bold(true)

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// spinner renders an animated progress indicator on its own goroutine until
// stopped.
type spinner struct {
	out  io.Writer
	stop chan struct{}
	done chan struct{}
}

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startSpinner starts the animation with the given message.
func startSpinner(out io.Writer, message string) *spinner {
	s := &spinner{
		out:  out,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-s.stop:
				// Clear the spinner line before handing the terminal back.
				fmt.Fprintf(s.out, "\r%*s\r", len(message)+2, "")
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", dimStyle.Render(spinnerFrames[frame%len(spinnerFrames)]), message)
				frame++
			}
		}
	}()

	return s
}

// Stop halts the animation and waits for the goroutine to exit.
func (s *spinner) Stop() {
	close(s.stop)
	<-s.done
}
