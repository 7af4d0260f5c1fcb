package app

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"parley/internal/chat"
	"parley/internal/client"
	"parley/internal/store"
)

func fetchSessionListCmd(api BackendAPI, subProjectID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		sessions, err := api.SessionList(ctx, subProjectID)
		return sessionListMsg{sessions: sessions, err: err}
	}
}

func loadPrefsCmd(prefs PreferenceStore, subProjectID string) tea.Cmd {
	return func() tea.Msg {
		mode, err := prefs.PermissionMode()
		if err != nil {
			return prefsLoadedMsg{mode: store.PermissionModeAsk, err: err}
		}
		pinned, err := prefs.SessionPin(subProjectID)
		return prefsLoadedMsg{mode: mode, pinned: pinned, err: err}
	}
}

func saveSessionPinCmd(prefs PreferenceStore, subProjectID, sessionID string) tea.Cmd {
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.SetSessionPin(subProjectID, sessionID)}
	}
}

func savePermissionModeCmd(prefs PreferenceStore, mode store.PermissionMode) tea.Cmd {
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.SetPermissionMode(mode)}
	}
}

// pollSessionCmd performs the snapshot fetch for one tick. A backend
// not-found is handed to the engine as an empty snapshot: the record simply
// has not propagated yet.
func pollSessionCmd(api BackendAPI, tick chat.Tick) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		wire, err := api.SessionMessages(ctx, tick.SessionID)
		if client.IsNotFound(err) {
			return pollResultMsg{tick: tick}
		}
		if err != nil {
			return pollResultMsg{tick: tick, err: err}
		}
		return pollResultMsg{tick: tick, messages: client.ToMessages(wire)}
	}
}

func schedulePollCmd(tick chat.Tick, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return pollTickMsg{tick: tick}
	})
}

func sendMessageCmd(api BackendAPI, intent chat.SubmitIntent, subProjectID string, mode store.PermissionMode) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		resp, err := api.SendMessage(ctx, client.SendMessageRequest{
			Prompt:         intent.Prompt,
			SessionID:      intent.SessionID,
			SubProjectID:   subProjectID,
			PermissionMode: string(mode),
		})
		if err != nil {
			return sendResultMsg{token: intent.Token, err: err}
		}
		return sendResultMsg{token: intent.Token, sessionID: resp.SessionID, chatID: resp.ChatID}
	}
}

func continueMessageCmd(api BackendAPI, intent chat.ContinueIntent) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		resp, err := api.ContinueMessage(ctx, intent.MessageID)
		if err != nil {
			return continueResultMsg{triggerID: intent.MessageID, err: err}
		}
		return continueResultMsg{triggerID: intent.MessageID, needs: resp.NeedsContinuation}
	}
}

func fetchHooksCmd(api BackendAPI, messageID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		hooks, err := api.MessageHooks(ctx, messageID)
		return hooksMsg{messageID: messageID, hooks: hooks, err: err}
	}
}

func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardResultMsg{err: clipboard.WriteAll(text)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(uiTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
