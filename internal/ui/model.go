package ui

import (
	"fmt"
	"strings"

	"github.com/nconklindev/csvbook/internal/converter"
	"github.com/nconklindev/csvbook/internal/types"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateProcessing state = iota
	stateComplete
	stateError
)

// Summary describes a finished batch.
type Summary struct {
	Mode       string
	OutputPath string
	// Outputs lists archive entries or sheet names.
	Outputs  []string
	Failures []types.Failure
}

// Job runs a batch, sending progress to reporter.
type Job func(reporter converter.ProgressReporter) (*Summary, error)

type Model struct {
	state        state
	title        string
	job          Job
	summary      *Summary
	err          error
	width        int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan jobResultMsg
}

type jobResultMsg struct {
	summary *Summary
	err     error
}

type jobCompleteMsg struct {
	summary *Summary
	err     error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(title string, job Job) Model {
	return Model{
		state:        stateProcessing,
		title:        title,
		job:          job,
		progress:     progress.New(progress.WithGradient("#FF8C42", "#FF9F5A")),
		progressChan: make(chan float64, 100),
		resultChan:   make(chan jobResultMsg, 1),
	}
}

// Summary returns the finished batch, or nil if it has not finished.
func (m Model) Summary() *Summary {
	return m.summary
}

// Err returns the error that ended the batch, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.start(),
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)
}

func (m Model) start() tea.Cmd {
	progressChan := m.progressChan
	resultChan := m.resultChan
	job := m.job

	return func() tea.Msg {
		go func() {
			summary, err := job(converter.ChannelReporter(progressChan))

			resultChan <- jobResultMsg{summary: summary, err: err}

			close(progressChan)
			close(resultChan)
		}()

		return waitForProgressMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(msg.Width-12, 20)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateProcessing:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case jobCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.summary = msg.summary
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, nil
	}

	return m, nil
}

func waitForProgress(progressChan chan float64, resultChan chan jobResultMsg) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return jobCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("▦ " + m.title))
	s.WriteString("\n\n")
	s.WriteString("Converting delimited files to XLSX...")
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("ctrl+c: abandon"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	if len(m.summary.Outputs) == 0 {
		s.WriteString(ErrorStyle.Render("✗ Nothing converted"))
	} else {
		s.WriteString(TitleStyle.Render("✓ Conversion Complete!"))
	}
	s.WriteString("\n\n")

	if m.summary.OutputPath != "" {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s", truncatePath(m.summary.OutputPath, m.width))))
		s.WriteString("\n\n")
	}

	label := "Files"
	if m.summary.Mode == "single" {
		label = "Sheets"
	}
	s.WriteString(fmt.Sprintf("%s (%d):\n", label, len(m.summary.Outputs)))
	for _, out := range m.summary.Outputs {
		s.WriteString(CheckedStyle.Render("  • " + out))
		s.WriteString("\n")
	}

	if len(m.summary.Failures) > 0 {
		s.WriteString("\n")
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Failed (%d):", len(m.summary.Failures))))
		s.WriteString("\n")
		for _, f := range m.summary.Failures {
			s.WriteString(FailureStyle.Render("  " + f.Error()))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press q to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to exit"))

	return BoxStyle.Render(s.String())
}

// truncatePath shortens p from the left so it fits a box of the given width.
func truncatePath(p string, width int) string {
	maxLen := max(width-20, 30)
	if len(p) <= maxLen {
		return p
	}
	return "..." + p[len(p)-maxLen+3:]
}
