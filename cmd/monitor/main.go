// Command monitor is a terminal dashboard for a running bridge process: it
// polls the diagnostic HTTP API for queue depth, counters, and TimedAction
// state, and the host for CPU/RAM, the same separation of concerns as the
// driver's own CLI dashboard.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	psutil "github.com/shirou/gopsutil/v3/cpu"
	psmem "github.com/shirou/gopsutil/v3/mem"
)

// maxHistoryLines bounds the scrollback kept in the history viewport so a
// long-running monitor doesn't grow its content buffer without bound.
const maxHistoryLines = 500

var addr = flag.String("addr", "http://127.0.0.1:8090", "bridge diagnostic API base URL")

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFFF00")).
			Padding(0, 2).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4B5563")).
			Padding(0, 2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2563EB")).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	copyNoticeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#10B981")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 2).
			Bold(true)
)

// statsSnapshot mirrors the JSON body httpapi.handleStats produces.
type statsSnapshot struct {
	PacketsTotal  uint64  `json:"packets_total"`
	AcksSuccess   uint64  `json:"acks_success"`
	ErrorsTotal   uint64  `json:"errors_total"`
	QueueSize     int     `json:"queue_size"`
	TimedActive   bool    `json:"timed_action_active"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type statsMsg struct {
	snap statsSnapshot
	err  error
}

type resourceMsg struct {
	text string
}

type hideCopyNoticeMsg struct{}

type model struct {
	client         *http.Client
	addr           string
	snap           statsSnapshot
	lastErr        error
	resourceLine   string
	showCopyNotice bool

	history      viewport.Model
	historyLines []string
}

func newModel() model {
	history := viewport.New(60, 8)
	history.SetContent("waiting for first poll...")

	return model{
		client:  &http.Client{Timeout: 2 * time.Second},
		addr:    *addr,
		history: history,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(pollStats(m.client, m.addr), pollResources())
}

// pushHistory appends a formatted snapshot line to the scrolling history
// viewport, trimming the oldest lines once maxHistoryLines is exceeded, and
// keeps the view pinned to the newest line the way the driver's own LogView
// stays pinned while new log lines arrive.
func (m *model) pushHistory(line string) {
	m.historyLines = append(m.historyLines, line)
	if len(m.historyLines) > maxHistoryLines {
		m.historyLines = m.historyLines[len(m.historyLines)-maxHistoryLines:]
	}
	m.history.SetContent(strings.Join(m.historyLines, "\n"))
	m.history.GotoBottom()
}

func pollStats(client *http.Client, addr string) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		resp, err := client.Get(addr + "/api/v1/stats")
		if err != nil {
			return statsMsg{err: err}
		}
		defer resp.Body.Close()
		var snap statsSnapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			return statsMsg{err: err}
		}
		return statsMsg{snap: snap}
	})
}

func pollResources() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		cpuPercent, _ := psutil.Percent(0, false)
		memInfo, _ := psmem.VirtualMemory()
		cpu := 0.0
		if len(cpuPercent) > 0 {
			cpu = cpuPercent[0]
		}
		mem := 0.0
		if memInfo != nil {
			mem = memInfo.UsedPercent
		}
		return resourceMsg{text: fmt.Sprintf("host cpu: %.1f%% | host ram: %.1f%% | %s", cpu, mem, runtime.Version())}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.history.Width = msg.Width - 4
		m.history.Height = msg.Height/3 + 1
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "c":
			text := formatStats(m.snap, m.resourceLine)
			if err := clipboard.WriteAll(text); err == nil {
				m.showCopyNotice = true
				return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg { return hideCopyNoticeMsg{} })
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case statsMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			m.pushHistory(fmt.Sprintf("unreachable: %v", msg.err))
		} else {
			m.lastErr = nil
			m.snap = msg.snap
			m.pushHistory(fmt.Sprintf(
				"packets=%d acks=%d errors=%d queue=%d timed=%t uptime=%.0fs",
				msg.snap.PacketsTotal, msg.snap.AcksSuccess, msg.snap.ErrorsTotal,
				msg.snap.QueueSize, msg.snap.TimedActive, msg.snap.UptimeSeconds,
			))
		}
		return m, pollStats(m.client, m.addr)

	case resourceMsg:
		m.resourceLine = msg.text
		return m, pollResources()

	case hideCopyNoticeMsg:
		m.showCopyNotice = false
	}

	return m, nil
}

func (m model) View() string {
	header := headerStyle.Render(fmt.Sprintf(" bridge monitor | %s ", m.addr))

	var body string
	if m.lastErr != nil {
		body = errorStyle.Render(fmt.Sprintf("unreachable: %v", m.lastErr))
	} else {
		timed := "no"
		if m.snap.TimedActive {
			timed = "yes"
		}
		successRate := "N/A"
		if m.snap.PacketsTotal > 0 {
			successRate = fmt.Sprintf("%.1f%%", 100*float64(m.snap.AcksSuccess)/float64(m.snap.PacketsTotal))
		}
		body = fmt.Sprintf(
			"packets_total   %d\nacks_success    %d\nerrors_total    %d\nsuccess_rate    %s\nqueue_size      %d\ntimed_action    %s\nuptime          %.0fs",
			m.snap.PacketsTotal, m.snap.AcksSuccess, m.snap.ErrorsTotal, successRate,
			m.snap.QueueSize, timed, m.snap.UptimeSeconds,
		)
	}
	box := boxStyle.Render(body)
	historyBox := boxStyle.Render("history\n" + m.history.View())

	footerText := m.resourceLine + " | q: quit | c: copy stats | ↑/↓: scroll history"
	if m.showCopyNotice {
		footerText = copyNoticeStyle.Render("copied to clipboard") + "  " + footerText
	}
	footer := footerStyle.Render(footerText)

	return lipgloss.JoinVertical(lipgloss.Left, header, box, historyBox, footer)
}

func formatStats(s statsSnapshot, resourceLine string) string {
	return fmt.Sprintf(
		"packets_total=%d acks_success=%d errors_total=%d queue_size=%d timed_action_active=%t uptime_seconds=%.0f\n%s",
		s.PacketsTotal, s.AcksSuccess, s.ErrorsTotal, s.QueueSize, s.TimedActive, s.UptimeSeconds, resourceLine,
	)
}

func main() {
	flag.Parse()
	p := tea.NewProgram(newModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("monitor: %v\n", err)
	}
}
