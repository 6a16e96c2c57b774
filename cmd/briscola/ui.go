package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"briscola/internal/bots"
	"briscola/internal/engine"
	"briscola/internal/local"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).MarginLeft(2)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("140"))
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = cardStyle.BorderForeground(lipgloss.Color("205")).Bold(true)
	trumpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	overlayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Background(lipgloss.Color("22")).Padding(1, 4)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
)

type stateMsg engine.GameState

type model struct {
	table *local.Table
	state engine.GameState

	mode       engine.Mode
	difficulty engine.Difficulty
	seed       *int64
	pause      time.Duration

	cursor int
	err    string
}

func newModel(table *local.Table, mode engine.Mode, d engine.Difficulty, seed *int64, pause time.Duration) model {
	return model{
		table:      table,
		state:      table.State(),
		mode:       mode,
		difficulty: d,
		seed:       seed,
		pause:      pause,
	}
}

func waitForState(ch <-chan engine.GameState) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ch)
	}
}

func (m model) Init() tea.Cmd {
	return waitForState(m.table.Updates())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = engine.GameState(msg)
		if hand := m.visibleHand(); m.cursor >= len(hand) {
			m.cursor = max(len(hand)-1, 0)
		}
		return m, waitForState(m.table.Updates())

	case tea.KeyMsg:
		m.err = ""
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.dispatch(engine.Action{Type: engine.ActionRestart})
			return m, nil
		}
		switch m.state.Phase {
		case engine.PhaseMenu, engine.PhaseGameOver:
			m.updateMenu(msg.String())
		case engine.PhasePlaying:
			m.updatePlaying(msg.String())
		}
	}
	return m, nil
}

func (m *model) updateMenu(key string) {
	switch key {
	case "h":
		m.mode = engine.ModeHotseat
	case "b":
		m.mode = engine.ModeVsBot
	case "1":
		m.difficulty = engine.DifficultyEasy
	case "2":
		m.difficulty = engine.DifficultyMedium
	case "3":
		m.difficulty = engine.DifficultyHard
	case "enter", "s":
		seed := m.seed
		if m.state.Phase == engine.PhaseGameOver {
			// A replay of the same seed would deal the same game.
			seed = nil
		}
		m.cursor = 0
		m.dispatch(engine.StartGame(seed, m.mode, m.difficulty, m.pause))
	}
}

func (m *model) updatePlaying(key string) {
	g := m.state
	if g.Overlay != nil && g.Overlay.Active {
		if key == "enter" || key == " " {
			m.dispatch(engine.ReadyForTurn(g.Overlay.Player))
		}
		return
	}
	hand := m.visibleHand()
	switch key {
	case "left", "a":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "d":
		if m.cursor < len(hand)-1 {
			m.cursor++
		}
	case "1", "2", "3":
		if i := int(key[0] - '1'); i < len(hand) {
			m.cursor = i
			m.dispatch(engine.PlayCard(m.actor(), i))
		}
	case "enter", " ":
		m.dispatch(engine.PlayCard(m.actor(), m.cursor))
	}
}

// actor is the seat the keyboard controls right now.
func (m model) actor() int {
	if m.state.Mode == engine.ModeHotseat {
		return m.state.Turn
	}
	return 0
}

func (m model) visibleHand() []engine.Card {
	g := m.state
	switch g.Mode {
	case engine.ModeHotseat:
		if g.ViewPlayer < 0 {
			return nil
		}
		return g.Hands[g.ViewPlayer]
	default:
		return g.Hands[0]
	}
}

func (m *model) dispatch(a engine.Action) {
	if err := m.table.Dispatch(a); err != nil {
		if errors.Is(err, engine.ErrRejected) {
			m.err = strings.TrimPrefix(err.Error(), engine.ErrRejected.Error()+": ")
			return
		}
		m.err = err.Error()
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Briscola") + "\n\n")

	switch m.state.Phase {
	case engine.PhaseMenu:
		b.WriteString(m.menuView())
	default:
		b.WriteString(m.tableView())
	}

	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render(m.err) + "\n")
	}
	return b.String()
}

func (m model) menuView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mode: %s   Bot: %s\n", m.mode, m.difficulty)
	if m.seed != nil {
		fmt.Fprintf(&b, "Seed: %d\n", *m.seed)
	}
	b.WriteString(helpStyle.Render("h hotseat • b vs bot • 1/2/3 bot easy/medium/hard • enter start • q quit"))
	return b.String()
}

func (m model) tableView() string {
	g := m.state
	var b strings.Builder

	opp := 1
	if g.Mode == engine.ModeHotseat && g.ViewPlayer == 1 {
		opp = 0
	}
	trump := "?"
	if g.Trump != nil {
		trump = g.Trump.String()
	}
	briscola := "drawn"
	if g.Briscola != nil {
		briscola = g.Briscola.String()
	}
	b.WriteString(infoStyle.Render(fmt.Sprintf("Trump %s   Briscola %s   Deck %d   Score %d - %d",
		trumpStyle.Render(trump), briscola, len(g.Deck), g.Scores[0], g.Scores[1])) + "\n\n")

	oppName := fmt.Sprintf("Player %d", opp+1)
	if g.Mode == engine.ModeVsBot {
		oppName = fmt.Sprintf("Bot (%s)", g.BotDifficulty)
	}
	fmt.Fprintf(&b, "%s: %d cards\n\n", oppName, len(g.Hands[opp]))

	trick := make([]string, 0, engine.Players)
	for p := 0; p < engine.Players; p++ {
		label := "--"
		if g.Trick[p] != nil {
			label = g.Trick[p].String()
		}
		trick = append(trick, cardStyle.Render(fmt.Sprintf("P%d %s", p+1, label)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, trick...) + "\n")

	if g.Overlay != nil && g.Overlay.Active {
		b.WriteString("\n" + overlayStyle.Render(g.Overlay.Message+"  (enter)") + "\n")
	} else if g.Phase == engine.PhasePlaying {
		hand := m.visibleHand()
		cards := make([]string, 0, len(hand))
		for i, c := range hand {
			style := cardStyle
			if i == m.cursor {
				style = selectedStyle
			}
			if g.Trump != nil && c.Suit == *g.Trump {
				cards = append(cards, style.Render(trumpStyle.Render(c.String())))
				continue
			}
			cards = append(cards, style.Render(c.String()))
		}
		b.WriteString("\nYour hand:\n" + lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n")
		if g.AwaitingResolve {
			b.WriteString(infoStyle.Render("Collecting trick...") + "\n")
		} else if g.Mode == engine.ModeVsBot && g.Turn == bots.Player {
			b.WriteString(infoStyle.Render("Bot is thinking...") + "\n")
		}
	}

	b.WriteString("\n")
	for _, line := range g.Log {
		b.WriteString(infoStyle.Render(line) + "\n")
	}

	if g.Phase == engine.PhaseGameOver {
		b.WriteString(helpStyle.Render("enter play again • r menu • q quit"))
	} else {
		b.WriteString(helpStyle.Render("←/→ choose • enter play • 1-3 play card • r menu • q quit"))
	}
	return b.String()
}
