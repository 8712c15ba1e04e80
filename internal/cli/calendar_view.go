package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/filter"
	"github.com/alexanderramin/siteplan/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type calendarKeyMap struct {
	Left, Right, Up, Down key.Binding
	PrevMonth, NextMonth  key.Binding
	Today                 key.Binding
	Help                  key.Binding
	Quit                  key.Binding
}

func newCalendarKeyMap() calendarKeyMap {
	return calendarKeyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev week")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next week")),
		PrevMonth: key.NewBinding(key.WithKeys("[", "p", "pgup"), key.WithHelp("[", "prev month")),
		NextMonth: key.NewBinding(key.WithKeys("]", "n", "pgdown"), key.WithHelp("]", "next month")),
		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k calendarKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth, k.Today, k.Help, k.Quit}
}

func (k calendarKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.PrevMonth, k.NextMonth, k.Today},
		{k.Help, k.Quit},
	}
}

// bucketsLoadedMsg carries a freshly computed month of buckets.
type bucketsLoadedMsg struct {
	month   calendar.Month
	buckets calendar.Buckets
	err     error
}

// calendarModel is an interactive month view. Buckets are recomputed from the
// task store every time the visible month changes.
type calendarModel struct {
	views    service.ViewService
	criteria filter.Criteria
	today    time.Time

	month    calendar.Month
	selected time.Time
	buckets  calendar.Buckets
	loading  bool
	err      error

	keys calendarKeyMap
	help help.Model
}

func newCalendarModel(views service.ViewService, c filter.Criteria, month calendar.Month, today time.Time) *calendarModel {
	selected := month.First()
	if month.Contains(today) {
		selected = today
	}

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	h.Styles.ShortDesc = formatter.StyleDim
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	h.Styles.FullDesc = formatter.StyleDim

	return &calendarModel{
		views:    views,
		criteria: c,
		today:    today,
		month:    month,
		selected: selected,
		buckets:  calendar.Buckets{},
		loading:  true,
		keys:     newCalendarKeyMap(),
		help:     h,
	}
}

func (m *calendarModel) Init() tea.Cmd {
	return m.load(m.month)
}

func (m *calendarModel) load(month calendar.Month) tea.Cmd {
	views, c := m.views, m.criteria
	return func() tea.Msg {
		b, err := views.Calendar(context.Background(), month, c)
		return bucketsLoadedMsg{month: month, buckets: b, err: err}
	}
}

func (m *calendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case bucketsLoadedMsg:
		if msg.month != m.month {
			// The user already moved on.
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.buckets = msg.buckets
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Left):
			return m, m.selectDay(m.selected.AddDate(0, 0, -1))
		case key.Matches(msg, m.keys.Right):
			return m, m.selectDay(m.selected.AddDate(0, 0, 1))
		case key.Matches(msg, m.keys.Up):
			return m, m.selectDay(m.selected.AddDate(0, 0, -7))
		case key.Matches(msg, m.keys.Down):
			return m, m.selectDay(m.selected.AddDate(0, 0, 7))
		case key.Matches(msg, m.keys.PrevMonth):
			return m, m.selectDay(sameDayIn(m.month.Prev(), m.selected.Day()))
		case key.Matches(msg, m.keys.NextMonth):
			return m, m.selectDay(sameDayIn(m.month.Next(), m.selected.Day()))
		case key.Matches(msg, m.keys.Today):
			return m, m.selectDay(m.today)
		}
	}
	return m, nil
}

// selectDay moves the cursor, switching month and reloading when needed.
func (m *calendarModel) selectDay(day time.Time) tea.Cmd {
	m.selected = day
	if m.month.Contains(day) {
		return nil
	}
	m.month = calendar.MonthOf(day)
	m.loading = true
	return m.load(m.month)
}

// sameDayIn returns day-of-month d in month, clamped to the month's length.
func sameDayIn(month calendar.Month, d int) time.Time {
	return month.First().AddDate(0, 0, min(d, month.Last().Day())-1)
}

func (m *calendarModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.FormatCalendarGrid(m.month, m.buckets, m.selected, m.today))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	case m.loading:
		b.WriteString(formatter.Dim("Loading…") + "\n")
	default:
		b.WriteString(formatter.FormatDayTasks(m.selected, m.buckets.Tasks(m.selected)))
	}

	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}
