package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/nconklindev/csvbook/internal/converter"
	"github.com/nconklindev/csvbook/internal/types"

	tea "github.com/charmbracelet/bubbletea"
)

func noopJob(converter.ProgressReporter) (*Summary, error) {
	return &Summary{}, nil
}

func TestWaitForProgress(t *testing.T) {
	progressChan := make(chan float64, 2)
	resultChan := make(chan jobResultMsg, 1)

	progressChan <- 0.5
	msg := waitForProgress(progressChan, resultChan)()
	if got, ok := msg.(progressMsg); !ok || got != 0.5 {
		t.Fatalf("waitForProgress() = %#v; want progressMsg(0.5)", msg)
	}

	summary := &Summary{Mode: "multi"}
	resultChan <- jobResultMsg{summary: summary}
	close(progressChan)
	close(resultChan)

	msg = waitForProgress(progressChan, resultChan)()
	done, ok := msg.(jobCompleteMsg)
	if !ok {
		t.Fatalf("waitForProgress() = %#v; want jobCompleteMsg", msg)
	}
	if done.summary != summary {
		t.Errorf("summary = %v; want %v", done.summary, summary)
	}
}

func TestUpdate_Complete(t *testing.T) {
	m := InitialModel("test", noopJob)

	summary := &Summary{
		Mode:       "multi",
		OutputPath: "out/converted_files.zip",
		Outputs:    []string{"a.xlsx", "b.xlsx"},
		Failures:   []types.Failure{{Source: "bad.csv", Err: converter.ErrEmptyInput}},
	}
	next, _ := m.Update(jobCompleteMsg{summary: summary})
	m = next.(Model)

	if m.Summary() != summary {
		t.Fatalf("Summary() = %v; want %v", m.Summary(), summary)
	}
	view := m.View()
	for _, want := range []string{"Conversion Complete!", "converted_files.zip", "a.xlsx", "b.xlsx", "Failed (1)", "bad.csv"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestUpdate_NothingConverted(t *testing.T) {
	m := InitialModel("test", noopJob)

	next, _ := m.Update(jobCompleteMsg{summary: &Summary{Mode: "multi"}})
	if view := next.(Model).View(); !strings.Contains(view, "Nothing converted") {
		t.Errorf("View() = %q; want it to report nothing converted", view)
	}
}

func TestUpdate_Error(t *testing.T) {
	m := InitialModel("test", noopJob)

	next, _ := m.Update(jobCompleteMsg{err: errors.New("error processing file x.csv")})
	m = next.(Model)

	if m.Err() == nil {
		t.Fatal("Err() = nil; want error")
	}
	if view := m.View(); !strings.Contains(view, "x.csv") {
		t.Errorf("View() = %q; want the error text", view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on error screen returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("enter on error screen did not quit")
	}
}

func TestUpdate_ProgressWhileProcessing(t *testing.T) {
	m := InitialModel("test", noopJob)

	_, cmd := m.Update(progressMsg(0.25))
	if cmd == nil {
		t.Error("progressMsg returned no command")
	}
	if view := m.View(); !strings.Contains(view, "Converting") {
		t.Errorf("View() = %q; want the processing screen", view)
	}
}

func TestRenderPreview(t *testing.T) {
	out := RenderPreview("people.csv", &types.Preview{
		Columns: []string{"name", "age"},
		Rows:    [][]string{{"ann", "31"}, {"bob", ""}},
	})

	for _, want := range []string{"people.csv", "name", "age", "ann", "31", "bob", "2 column(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderPreview() missing %q:\n%s", want, out)
		}
	}
}
