package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"parley/internal/types"
)

const (
	tabPreviewWidth = 24
	hookOutputMax   = 160
)

func (m *Model) View() string {
	if !m.ready {
		return "starting..."
	}
	var b strings.Builder
	b.WriteString(m.renderTabStrip())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

func (m *Model) renderTabStrip() string {
	parts := make([]string, 0, 8)
	for _, tab := range m.convo.Tabs() {
		label := tab.Preview
		if label == "" {
			label = tab.SessionID
		}
		label = xansi.Truncate(strings.ReplaceAll(label, "\n", " "), tabPreviewWidth, "…")
		if tab.MessageCount > 0 {
			label = label + " (" + strconv.Itoa(tab.MessageCount) + ")"
		}
		switch {
		case tab.Active:
			parts = append(parts, tabActiveStyle.Render(label))
		case tab.Virtual:
			parts = append(parts, tabVirtualStyle.Render(label))
		default:
			parts = append(parts, tabStyle.Render(label))
		}
	}
	strip := strings.Join(parts, " ")
	return xansi.Truncate(strip, m.width, "…")
}

func (m *Model) renderTranscript(width int) string {
	timeline := m.convo.Timeline()
	if len(timeline) == 0 {
		return pendingTextStyle.Render("No messages yet. Say something.")
	}
	blocks := make([]string, 0, len(timeline))
	for _, msg := range timeline {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderMessage(msg types.Message, width int) string {
	var b strings.Builder
	b.WriteString(roleLabel(msg.Role))
	if !msg.Timestamp.IsZero() {
		b.WriteString(" ")
		b.WriteString(timestampStyle.Render(msg.Timestamp.Local().Format("15:04:05")))
	}
	if msg.ID.Temporary() {
		b.WriteString(" ")
		b.WriteString(pendingTextStyle.Render("(pending)"))
	}
	b.WriteString("\n")

	text := msg.Content.Text
	switch {
	case msg.Processing && text == "":
		b.WriteString(pendingTextStyle.Render(m.loader.View() + " working"))
	case msg.Processing:
		b.WriteString(wrapText(text, width))
		b.WriteString("\n")
		b.WriteString(pendingTextStyle.Render(m.loader.View() + " still working"))
	default:
		b.WriteString(wrapText(text, width))
	}

	if hooks, ok := m.hooks[msg.ID.String()]; ok && len(hooks) > 0 {
		for _, hook := range hooks {
			b.WriteString("\n")
			b.WriteString(renderHookLine(hook, width))
		}
	}
	return b.String()
}

func roleLabel(role types.Role) string {
	switch role {
	case types.RoleUser:
		return userLabelStyle.Render("you")
	case types.RoleAssistant:
		return agentLabelStyle.Render("assistant")
	case types.RoleAuto:
		return autoLabelStyle.Render("auto")
	default:
		return string(role)
	}
}

func renderHookLine(hook types.Hook, width int) string {
	line := "⚙ " + hook.Name
	if hook.Status != "" {
		line += " [" + hook.Status + "]"
	}
	if out := strings.TrimSpace(hook.Output); out != "" {
		out = strings.ReplaceAll(out, "\n", " ")
		if runewidth.StringWidth(out) > hookOutputMax {
			out = runewidth.Truncate(out, hookOutputMax, "…")
		}
		line += ": " + out
	}
	return hookLineStyle.Render(xansi.Truncate(line, width, "…"))
}

func (m *Model) renderStatusLine() string {
	if m.toast != "" {
		if m.toastErr {
			return toastErrorStyle.Render(m.toast)
		}
		return toastInfoStyle.Render(m.toast)
	}

	left := "mode: " + string(m.permissionMode)
	if session := m.convo.PinnedSessionID(); session != "" {
		left += "  session: " + shortID(session)
	} else {
		left += "  session: new"
	}
	state := ""
	if m.convo.Waiting() {
		state = waitingStyle.Render(m.loader.View() + " waiting")
	}
	help := "enter send · ctrl+j newline · tab switch · ctrl+n new · ctrl+p mode · ctrl+y copy · ctrl+h hooks · ctrl+c quit"

	line := statusStyle.Render(left)
	if state != "" {
		line += "  " + state
	}
	remaining := m.width - lipgloss.Width(line) - 2
	if remaining > lipgloss.Width(help) {
		line += strings.Repeat(" ", remaining-lipgloss.Width(help)) + statusStyle.Render(help)
	}
	return xansi.Truncate(line, m.width, "")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return xansi.Wordwrap(text, width, "")
}

