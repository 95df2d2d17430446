package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// progressImpl implements Progress. Headless indicators write plain lines
// to the headless output; interactive ones run a bubbletea program.
type progressImpl struct {
	theme    *Theme
	headless *HeadlessManager
}

// NewProgress creates a Progress backed by the given theme and headless manager.
func NewProgress(theme *Theme, hm *HeadlessManager) Progress {
	return &progressImpl{theme: theme, headless: hm}
}

func (p *progressImpl) plain() bool {
	return p.headless.IsHeadless() || p.theme.NoColor
}

// Start creates a determinate progress bar counting to total.
func (p *progressImpl) Start(title string, total int) ProgressBar {
	if p.plain() {
		return &lineTask{w: p.headless.out, title: title, total: total}
	}
	return startTeaTask(newTaskModel(p.theme, title, total))
}

// Spinner creates an indeterminate spinner.
func (p *progressImpl) Spinner(title string) Spinner {
	if p.plain() {
		_, _ = fmt.Fprintln(p.headless.out, title)
		return &lineTask{w: p.headless.out, title: title}
	}
	return startTeaTask(newTaskModel(p.theme, title, 0))
}

// Messages driving taskModel.
type (
	taskStepMsg  int
	taskTitleMsg string
	taskDoneMsg  struct{}
)

// taskModel renders a spinner when total is zero and a bar otherwise.
type taskModel struct {
	spin    spinner.Model
	bar     progress.Model
	title   string
	current int
	total   int
	done    bool
}

func newTaskModel(theme *Theme, title string, total int) taskModel {
	m := taskModel{title: title, total: total}

	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	barOpts := []progress.Option{progress.WithWidth(40), progress.WithDefaultGradient()}
	if !theme.NoColor {
		m.spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Colors.Primary))
		barOpts = []progress.Option{progress.WithWidth(40), progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary)}
	}
	m.bar = progress.New(barOpts...)
	return m
}

func (m taskModel) isBar() bool { return m.total > 0 }

func (m taskModel) Init() tea.Cmd {
	if m.isBar() {
		return nil
	}
	return m.spin.Tick
}

func (m taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskStepMsg:
		m.current = min(m.current+int(msg), m.total)
	case taskTitleMsg:
		m.title = string(msg)
	case taskDoneMsg:
		m.current = m.total
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bm, cmd := m.bar.Update(msg)
		m.bar = bm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m taskModel) View() string {
	if m.done {
		return ""
	}
	if !m.isBar() {
		return m.spin.View() + " " + m.title + "\n"
	}
	return fmt.Sprintf("%s [%d/%d] %s\n", m.bar.ViewAs(float64(m.current)/float64(m.total)), m.current, m.total, m.title)
}

// teaTask drives a taskModel program. It serves as both ProgressBar and Spinner.
type teaTask struct {
	program *tea.Program
	once    sync.Once
}

func startTeaTask(m taskModel) *teaTask {
	t := &teaTask{program: tea.NewProgram(m)}
	go func() {
		_, _ = t.program.Run()
	}()
	return t
}

func (t *teaTask) Increment(n int)       { t.program.Send(taskStepMsg(n)) }
func (t *teaTask) SetTitle(title string) { t.program.Send(taskTitleMsg(title)) }

// Done finishes the task and waits for the program to exit. Safe to call twice.
func (t *teaTask) Done() {
	t.once.Do(func() {
		t.program.Send(taskDoneMsg{})
		t.program.Wait()
	})
}

func (t *teaTask) Stop() { t.Done() }

// lineTask is the headless indicator: bars print "[n/total] title" per
// step, spinners print each new title.
type lineTask struct {
	w       io.Writer
	title   string
	current int
	total   int
}

func (l *lineTask) Increment(n int) {
	l.current = min(l.current+n, l.total)
	l.line()
}

func (l *lineTask) SetTitle(title string) {
	l.title = title
	if l.total == 0 {
		_, _ = fmt.Fprintln(l.w, title)
	}
}

func (l *lineTask) Done() {
	l.current = l.total
	l.line()
}

func (l *lineTask) Stop() {}

func (l *lineTask) line() {
	_, _ = fmt.Fprintf(l.w, "[%d/%d] %s\n", l.current, l.total, l.title)
}
