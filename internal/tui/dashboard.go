package tui

import (
	"context"
	"fmt"
	"sort"
	"time"

	"coinpulse/internal/domain"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type SentimentReader interface {
	Summarize(ctx context.Context, windowDays int, now time.Time) (map[string]domain.AssetSentimentSummary, error)
	Count(ctx context.Context) (int64, error)
}

// Services carries everything a dashboard session needs.
type Services struct {
	Sentiment  SentimentReader
	WindowDays int
	Username   string
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

type summariesMsg struct {
	summaries map[string]domain.AssetSentimentSummary
	total     int64
	err       error
}

type DashboardModel struct {
	svc       Services
	table     table.Model
	total     int64
	err       error
	loading   bool
	width     int
	height    int
	refreshed time.Time
}

func NewDashboardModel(svc Services) *DashboardModel {
	if svc.WindowDays <= 0 {
		svc.WindowDays = 7
	}

	columns := []table.Column{
		{Title: "Asset", Width: 12},
		{Title: "Label", Width: 8},
		{Title: "Avg", Width: 8},
		{Title: "Articles", Width: 9},
		{Title: "Pos", Width: 5},
		{Title: "Neg", Width: 5},
		{Title: "Neu", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return &DashboardModel{svc: svc, table: t, loading: true}
}

func (m *DashboardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.fetchSummaries()
}

func (m *DashboardModel) fetchSummaries() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if svc.Sentiment == nil {
			return summariesMsg{err: fmt.Errorf("sentiment service unavailable")}
		}
		summaries, err := svc.Sentiment.Summarize(ctx, svc.WindowDays, time.Now().UTC())
		if err != nil {
			return summariesMsg{err: err}
		}
		total, err := svc.Sentiment.Count(ctx)
		if err != nil {
			return summariesMsg{err: err}
		}
		return summariesMsg{summaries: summaries, total: total}
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.fetchSummaries()
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case summariesMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.total = msg.total
			m.refreshed = time.Now().UTC()
			m.table.SetRows(summaryRows(msg.summaries))
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func summaryRows(summaries map[string]domain.AssetSentimentSummary) []table.Row {
	ordered := make([]domain.AssetSentimentSummary, 0, len(summaries))
	for _, s := range summaries {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].AverageSentiment != ordered[j].AverageSentiment {
			return ordered[i].AverageSentiment > ordered[j].AverageSentiment
		}
		return ordered[i].Asset < ordered[j].Asset
	})

	rows := make([]table.Row, 0, len(ordered))
	for _, s := range ordered {
		rows = append(rows, table.Row{
			s.Asset,
			domain.SentimentLabel(s.AverageSentiment),
			fmt.Sprintf("%+.3f", s.AverageSentiment),
			fmt.Sprintf("%d", s.ArticleCount),
			fmt.Sprintf("%d", s.PositiveCount),
			fmt.Sprintf("%d", s.NegativeCount),
			fmt.Sprintf("%d", s.NeutralCount),
		})
	}
	return rows
}

func (m *DashboardModel) View() string {
	header := titleStyle.Render(fmt.Sprintf("CoinPulse Sentiment - last %d days", m.svc.WindowDays))

	var status string
	switch {
	case m.loading:
		status = statusStyle.Render("Loading summaries...")
	case m.err != nil:
		status = errorStyle.Render("Error: " + m.err.Error())
	default:
		status = statusStyle.Render(fmt.Sprintf(
			"%d articles stored | refreshed %s | r refresh, q quit",
			m.total, m.refreshed.Format("15:04:05"),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		baseStyle.Render(m.table.View()),
		status,
	)
}
