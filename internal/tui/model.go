package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tutor/internal/chunker"
	"tutor/internal/domain"
)

// Searcher is the TUI-facing subset of the tutoring service.
type Searcher interface {
	Search(sessionID, query string, topK int, minScore float64) []domain.SearchResult
}

// Config selects the session and the retrieval parameters for queries.
type Config struct {
	SessionID string
	Title     string
	Summary   string
	TopK      int
	MinScore  float64
}

// Model is the Bubble Tea model for the interactive material search.
type Model struct {
	searcher  Searcher
	cfg       Config
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.SearchResult
	status    string
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance.
func New(searcher Searcher, cfg Config) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	if cfg.Title == "" {
		cfg.Title = "Study Material Search"
	}
	return Model{searcher: searcher, cfg: cfg, input: ti, viewport: vp, status: "Loaded. Type to search."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		m.viewport.Width = max(20, msg.Width)
		headerLines := 1 + lipgloss.Height(m.renderSummary())
		reserved := headerLines + 1 + qh + 1 // status line and spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.results = m.searcher.Search(m.cfg.SessionID, q, m.cfg.TopK, m.cfg.MinScore)
				m.cursor = 0
				m.lastQuery = q
				if len(m.results) == 0 {
					m.status = fmt.Sprintf("No material matches %q", q)
				} else {
					m.status = fmt.Sprintf("%d results for %q", len(m.results), q)
				}
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render(m.cfg.Title)
	summary := m.renderSummary()
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderSummary() string {
	return summaryStyle.Copy().Width(m.viewport.Width).Render(m.cfg.Summary)
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Result %d/%d  %s #%d  score=%.3f", m.cursor+1, len(m.results), sourceName(r.Chunk.Filename), r.Chunk.Index, r.Score)
	body := highlightBestSentence(r.Chunk.Text, m.lastQuery)
	return title + "\n\n" + body
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tokenRe        = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)
)

func sourceName(filename string) string {
	if filename == "" {
		return "(untitled)"
	}
	return filename
}

// highlightBestSentence renders the chunk with the sentence sharing the most
// query tokens emphasized.
func highlightBestSentence(text, query string) string {
	sentences := chunker.Sentences(text)
	if len(sentences) == 0 {
		return text
	}
	best := bestSentence(sentences, query)
	if best >= 0 {
		sentences[best] = highlightStyle.Render(sentences[best])
	}
	return strings.Join(sentences, " ")
}

// bestSentence returns the index of the sentence with the largest query token
// overlap, earliest on ties, or -1 when the query has no tokens.
func bestSentence(sentences []string, query string) int {
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return -1
	}
	best, bestScore := 0, -1
	for i, s := range sentences {
		if score := tokenOverlapScore(qTokens, s); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func toTokenSet(s string) map[string]struct{} {
	tokens := tokenRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := tokenRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}

