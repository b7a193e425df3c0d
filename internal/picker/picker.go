// Package picker is the interactive terminal view for accepting generated
// suggestions one at a time.
package picker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/reqwiz/internal/model"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 2)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)

	activeTabStyle = tabStyle.
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			Padding(0, 0, 0, 2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 0, 0, 2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 0, 0, 4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(1, 0, 0, 2)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// Session is the part of *session.Session the picker drives.
type Session interface {
	JobTitle() string
	Generate(ctx context.Context, category model.Category, count int) ([]string, error)
	Consume(ctx context.Context, category model.Category, i int) (string, error)
	AddManual(ctx context.Context, category model.Category, item string) (bool, error)
	Pool(category model.Category) []string
	Selection(category model.Category) []string
}

type generatedMsg struct {
	category model.Category
	err      error
}

type tickMsg struct{}

type pickerModel struct {
	ctx      context.Context
	sess     Session
	count    int
	category model.Category
	cursor   int

	// categories with a generation in flight
	loading map[model.Category]bool
	frame   int
	status  string
	err     string

	adding bool
	input  textinput.Model

	// categories already generated this run
	generated map[model.Category]bool
}

func newModel(ctx context.Context, sess Session, category model.Category, count int) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "type an item and press enter"
	ti.CharLimit = 200
	return pickerModel{
		ctx:       ctx,
		sess:      sess,
		count:     count,
		category:  category,
		loading:   map[model.Category]bool{category: true},
		input:     ti,
		generated: map[model.Category]bool{category: true},
	}
}

func (m pickerModel) Init() tea.Cmd {
	return tea.Batch(m.generate(), tick())
}

func (m *pickerModel) startGenerate() tea.Cmd {
	ticking := m.anyLoading()
	m.loading[m.category] = true
	m.err = ""
	m.generated[m.category] = true
	if ticking {
		return m.generate()
	}
	return tea.Batch(m.generate(), tick())
}

func (m pickerModel) anyLoading() bool {
	for _, busy := range m.loading {
		if busy {
			return true
		}
	}
	return false
}

func (m pickerModel) generate() tea.Cmd {
	ctx, sess, category, count := m.ctx, m.sess, m.category, m.count
	return func() tea.Msg {
		_, err := sess.Generate(ctx, category, count)
		return generatedMsg{category: category, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !m.anyLoading() {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()

	case generatedMsg:
		m.loading[msg.category] = false
		if msg.category != m.category {
			return m, nil
		}
		m.cursor = 0
		if msg.err != nil {
			m.err = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m pickerModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sess.Pool(m.category))-1 {
			m.cursor++
		}
	case "tab", "right", "l":
		return m.switchCategory(1)
	case "shift+tab", "left", "h":
		return m.switchCategory(-1)
	case "r":
		if !m.loading[m.category] {
			return m, m.startGenerate()
		}
	case "a":
		m.adding = true
		m.status = ""
		return m, m.input.Focus()
	case "enter", " ":
		if m.loading[m.category] {
			return m, nil
		}
		item, err := m.sess.Consume(m.ctx, m.category, m.cursor)
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		m.status = fmt.Sprintf("added %q", item)
		if n := len(m.sess.Pool(m.category)); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
	}
	return m, nil
}

func (m pickerModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.adding = false
		m.input.Reset()
		m.input.Blur()
		return m, nil
	case "enter":
		value := m.input.Value()
		m.adding = false
		m.input.Reset()
		m.input.Blur()
		added, err := m.sess.AddManual(m.ctx, m.category, value)
		switch {
		case err != nil:
			m.err = err.Error()
		case added:
			m.err = ""
			m.status = fmt.Sprintf("added %q", strings.TrimSpace(value))
		default:
			m.status = "nothing added"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m pickerModel) switchCategory(delta int) (tea.Model, tea.Cmd) {
	idx := 0
	for i, c := range model.Categories {
		if c == m.category {
			idx = i
		}
	}
	n := len(model.Categories)
	m.category = model.Categories[(idx+delta+n)%n]
	m.cursor = 0
	m.status = ""
	m.err = ""
	if !m.generated[m.category] {
		return m, m.startGenerate()
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Suggestions for %q", m.sess.JobTitle())))
	b.WriteString("\n")

	tabs := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		if c == m.category {
			tabs = append(tabs, activeTabStyle.Render(string(c)))
		} else {
			tabs = append(tabs, tabStyle.Render(string(c)))
		}
	}
	b.WriteString("  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")

	pool := m.sess.Pool(m.category)
	switch {
	case m.loading[m.category]:
		b.WriteString(itemStyle.Render(spinnerFrames[m.frame]+" generating "+string(m.category)+"...") + "\n")
	case len(pool) == 0:
		b.WriteString(itemStyle.Render("no pending suggestions (r to regenerate)") + "\n")
	default:
		for i, item := range pool {
			if i == m.cursor {
				b.WriteString(cursorStyle.Render("> "+item) + "\n")
			} else {
				b.WriteString(itemStyle.Render(item) + "\n")
			}
		}
	}

	selected := m.sess.Selection(m.category)
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Selected (%d)", len(selected))) + "\n")
	for _, item := range selected {
		b.WriteString(selectedItemStyle.Render("✓ "+item) + "\n")
	}

	if m.adding {
		b.WriteString("\n  " + m.input.View() + "\n")
	}
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err) + "\n")
	} else if m.status != "" {
		b.WriteString(hintStyle.Render(m.status) + "\n")
	}

	b.WriteString(hintStyle.Render("↑/↓ navigate  enter accept  a add  r regenerate  tab category  q quit"))
	return b.String()
}

// Run shows the picker for sess starting at category. Each accepted item is
// consumed from the pool into the session's selection.
func Run(ctx context.Context, sess Session, category model.Category, count int) error {
	if !category.Valid() {
		return &model.InvalidCategoryError{Value: string(category)}
	}
	p := tea.NewProgram(newModel(ctx, sess, category, count), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
