// Package ui provides the Bubbletea terminal user interface for watching a
// batch scan.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxRecentFailures bounds the failure tail shown in the view.
const maxRecentFailures = 8

// failure is one flagged file kept for display.
type failure struct {
	Path   string
	Detail string
}

// Model is the Bubbletea model for the batch progress UI
type Model struct {
	Label string // kind of scan being watched

	Total  int
	Done   int
	OK     int
	Failed int

	// Per-letter tallies in the order letters were first seen
	LetterOrder []string
	LetterDone  map[string]int
	LetterOK    map[string]int

	RecentFailures []failure

	StartTime time.Time
	Finished  bool
	Aborted   bool

	// Channel for receiving progress updates from the batch goroutine
	ProgressChan chan tea.Msg

	Width  int
	Height int
}

// NewModel creates a UI model watching a batch of unknown size; the size
// arrives with BatchStartMsg once scanning has selected the work.
func NewModel() Model {
	return Model{
		LetterDone:   map[string]int{},
		LetterOK:     map[string]int{},
		StartTime:    time.Now(),
		ProgressChan: make(chan tea.Msg, 100),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return waitForProgress(m.ProgressChan)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Aborted = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case BatchStartMsg:
		m.Total = msg.Total
		m.Label = msg.Label
		m.StartTime = time.Now()
		return m, waitForProgress(m.ProgressChan)

	case FileResultMsg:
		m.Done++
		if _, seen := m.LetterDone[msg.Letter]; !seen {
			m.LetterOrder = append(m.LetterOrder, msg.Letter)
		}
		m.LetterDone[msg.Letter]++
		if msg.OK {
			m.OK++
			m.LetterOK[msg.Letter]++
		} else {
			m.Failed++
			m.RecentFailures = append(m.RecentFailures, failure{Path: msg.Path, Detail: msg.Detail})
			if len(m.RecentFailures) > maxRecentFailures {
				m.RecentFailures = m.RecentFailures[1:]
			}
		}
		return m, waitForProgress(m.ProgressChan)

	case AllCompleteMsg:
		m.Finished = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Finished {
		return renderCompletionSummary(m)
	}
	return renderProgressView(m)
}

// waitForProgress creates a command that waits for progress messages
func waitForProgress(progressChan chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-progressChan
	}
}
