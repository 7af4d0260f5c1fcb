package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"parley/internal/chat"
	"parley/internal/client"
	"parley/internal/config"
	"parley/internal/logging"
	"parley/internal/store"
	"parley/internal/types"
)

const (
	uiTickInterval   = 250 * time.Millisecond
	toastDuration    = 4 * time.Second
	minContentHeight = 4
	tabStripHeight   = 1
	statusLineHeight = 1
)

type Model struct {
	api   BackendAPI
	prefs PreferenceStore
	log   logging.Logger
	convo *chat.Conversation

	viewport viewport.Model
	input    textarea.Model
	loader   spinner.Model

	width  int
	height int
	ready  bool
	follow bool

	permissionMode store.PermissionMode
	// hooks caches fetched hook details per authoritative message id.
	hooks map[string][]types.Hook

	toast      string
	toastErr   bool
	toastUntil time.Time

	inputMin int
	inputMax int
}

func NewModel(api BackendAPI, prefs PreferenceStore, cfg config.Config, subProjectID string, log logging.Logger) *Model {
	if log == nil {
		log = logging.Nop()
	}
	convo := chat.NewConversation(subProjectID,
		chat.WithLogger(log),
		chat.WithIntervalStrategy(chat.DefaultIntervalStrategy(cfg.WaitingInterval(), cfg.IdleInterval())))

	minHeight, maxHeight := cfg.InputHeights()

	input := textarea.New()
	input.Placeholder = "Type a message (enter to send, ctrl+j for newline)"
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(minHeight)
	input.Focus()

	loader := spinner.New(spinner.WithSpinner(spinner.MiniDot))

	return &Model{
		api:            api,
		prefs:          prefs,
		log:            log,
		convo:          convo,
		input:          input,
		loader:         loader,
		follow:         true,
		permissionMode: store.PermissionModeAsk,
		hooks:          map[string][]types.Hook{},
		inputMin:       minHeight,
		inputMax:       maxHeight,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.loader.Tick,
		tickCmd(),
		loadPrefsCmd(m.prefs, m.convo.SubProjectID()),
		fetchSessionListCmd(m.api, m.convo.SubProjectID()),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case prefsLoadedMsg:
		return m, m.handlePrefsLoaded(msg)
	case prefsSavedMsg:
		if msg.err != nil {
			m.log.Warn("preference save failed", logging.F("err", msg.err))
		}
		return m, nil
	case sessionListMsg:
		return m, m.handleSessionList(msg)
	case pollTickMsg:
		if !m.convo.ValidTick(msg.tick) {
			return m, nil
		}
		return m, pollSessionCmd(m.api, msg.tick)
	case pollResultMsg:
		return m, m.handlePollResult(msg)
	case sendResultMsg:
		return m, m.handleSendResult(msg)
	case continueResultMsg:
		if m.convo.ApplyContinueResult(msg.triggerID, msg.needs, msg.err) {
			m.refreshTranscript()
		}
		if msg.err != nil {
			m.showToast("auto-continue failed: "+msg.err.Error(), true)
		}
		return m, nil
	case hooksMsg:
		if msg.err != nil {
			m.showToast("hook fetch failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.hooks[msg.messageID] = msg.hooks
		m.refreshTranscript()
		return m, nil
	case clipboardResultMsg:
		if msg.err != nil {
			m.showToast("copy failed: "+msg.err.Error(), true)
		} else {
			m.showToast("copied to clipboard", false)
		}
		return m, nil
	case tickMsg:
		if m.toast != "" && time.Time(msg).After(m.toastUntil) {
			m.toast = ""
		}
		return m, tickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) tea.Cmd {
	m.width = msg.Width
	m.height = msg.Height

	inputHeight := m.desiredInputHeight()
	contentHeight := m.height - tabStripHeight - statusLineHeight - inputHeight - 1
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = contentHeight
	}
	m.input.SetWidth(m.width - 2)
	m.input.SetHeight(inputHeight)
	m.refreshTranscript()
	return nil
}

func (m *Model) desiredInputHeight() int {
	lines := m.input.LineCount()
	if lines < m.inputMin {
		return m.inputMin
	}
	if lines > m.inputMax {
		return m.inputMax
	}
	return lines
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		return m, m.submit()
	case "ctrl+j":
		m.input.InsertString("\n")
		return m, m.syncInputHeight()
	case "tab":
		return m, m.cycleSession(1)
	case "shift+tab":
		return m, m.cycleSession(-1)
	case "ctrl+n":
		m.convo.NewSession()
		m.hooks = map[string][]types.Hook{}
		m.refreshTranscript()
		m.showToast("new conversation", false)
		return m, nil
	case "ctrl+p":
		m.permissionMode = store.NextPermissionMode(m.permissionMode)
		m.showToast("permission mode: "+string(m.permissionMode), false)
		return m, savePermissionModeCmd(m.prefs, m.permissionMode)
	case "ctrl+y":
		return m, m.copyLastReply()
	case "ctrl+h":
		return m, m.fetchLastReplyHooks()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.follow = m.viewport.AtBottom()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, tea.Batch(cmd, m.syncInputHeight())
}

// syncInputHeight grows and shrinks the input between its configured bounds
// as the draft wraps, reclaiming transcript space when it shrinks back.
func (m *Model) syncInputHeight() tea.Cmd {
	if !m.ready {
		return nil
	}
	want := m.desiredInputHeight()
	if m.input.Height() == want {
		return nil
	}
	return m.handleResize(tea.WindowSizeMsg{Width: m.width, Height: m.height})
}

func (m *Model) submit() tea.Cmd {
	intent, err := m.convo.BeginSubmit(m.input.Value())
	if err != nil {
		if errors.Is(err, chat.ErrBusy) {
			m.showToast("still waiting on the previous reply", true)
		}
		return nil
	}
	m.input.Reset()
	m.follow = true
	m.refreshTranscript()
	return tea.Batch(
		sendMessageCmd(m.api, intent, m.convo.SubProjectID(), m.permissionMode),
		m.syncInputHeight(),
	)
}

func (m *Model) cycleSession(step int) tea.Cmd {
	tabs := m.convo.Tabs()
	if len(tabs) < 2 {
		return nil
	}
	active := 0
	for i, tab := range tabs {
		if tab.Active {
			active = i
			break
		}
	}
	next := tabs[(active+step+len(tabs))%len(tabs)]
	return m.activateTab(next)
}

func (m *Model) activateTab(tab chat.Tab) tea.Cmd {
	m.hooks = map[string][]types.Hook{}
	if tab.SessionID == "" {
		m.convo.NewSession()
		m.refreshTranscript()
		return nil
	}
	tick, ok := m.convo.SwitchSession(tab.SessionID)
	m.refreshTranscript()
	if !ok {
		return nil
	}
	return tea.Batch(
		pollSessionCmd(m.api, tick),
		saveSessionPinCmd(m.prefs, m.convo.SubProjectID(), tab.SessionID),
	)
}

func (m *Model) copyLastReply() tea.Cmd {
	for i := len(m.convo.Timeline()) - 1; i >= 0; i-- {
		msg := m.convo.Timeline()[i]
		if msg.Role == types.RoleAssistant && msg.Content.Text != "" {
			return copyToClipboardCmd(msg.Content.Text)
		}
	}
	m.showToast("nothing to copy", true)
	return nil
}

func (m *Model) fetchLastReplyHooks() tea.Cmd {
	timeline := m.convo.Timeline()
	for i := len(timeline) - 1; i >= 0; i-- {
		msg := timeline[i]
		if msg.Role == types.RoleAssistant && !msg.ID.Temporary() && !msg.ID.Zero() {
			return fetchHooksCmd(m.api, msg.ID.String())
		}
	}
	m.showToast("no message to inspect", true)
	return nil
}

func (m *Model) handlePrefsLoaded(msg prefsLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warn("preference load failed", logging.F("err", msg.err))
	}
	m.permissionMode = msg.mode
	if msg.pinned == "" {
		return nil
	}
	tick, ok := m.convo.SwitchSession(msg.pinned)
	if !ok {
		return nil
	}
	return pollSessionCmd(m.api, tick)
}

func (m *Model) handleSessionList(msg sessionListMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warn("session list fetch failed", logging.F("err", msg.err))
		return nil
	}
	m.convo.SetSessions(msg.sessions)
	return nil
}

func (m *Model) handlePollResult(msg pollResultMsg) tea.Cmd {
	if !m.convo.ValidTick(msg.tick) {
		return nil
	}
	if m.convo.ApplyPoll(msg.tick, msg.messages, msg.err) {
		m.refreshTranscript()
	}

	var cmds []tea.Cmd
	if intent := m.convo.EvaluateContinuation(); intent != nil {
		m.refreshTranscript()
		cmds = append(cmds, continueMessageCmd(m.api, *intent))
	}
	if tick, delay, ok := m.convo.NextPoll(); ok {
		cmds = append(cmds, schedulePollCmd(tick, delay))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleSendResult(msg sendResultMsg) tea.Cmd {
	wasDraft := m.convo.PinnedSessionID() == ""
	tick, ok := m.convo.ApplySendResult(msg.token, msg.sessionID, msg.err)
	if msg.err != nil {
		m.refreshTranscript()
		m.showToast(sendFailureText(msg.err), true)
		return nil
	}
	if !ok {
		return nil
	}
	cmds := []tea.Cmd{pollSessionCmd(m.api, tick)}
	if wasDraft {
		cmds = append(cmds,
			saveSessionPinCmd(m.prefs, m.convo.SubProjectID(), m.convo.PinnedSessionID()),
			fetchSessionListCmd(m.api, m.convo.SubProjectID()))
	}
	return tea.Batch(cmds...)
}

func (m *Model) showToast(text string, isErr bool) {
	m.toast = text
	m.toastErr = isErr
	m.toastUntil = time.Now().Add(toastDuration)
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript(m.viewport.Width))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// Run starts the interactive UI and blocks until it exits.
func Run(api BackendAPI, prefs PreferenceStore, cfg config.Config, subProjectID string, log logging.Logger) error {
	model := NewModel(api, prefs, cfg, subProjectID, log)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func sendFailureText(err error) string {
	if client.IsInsufficientResource(err) {
		return "send failed: insufficient credits"
	}
	return strings.TrimSpace("send failed: " + err.Error())
}
