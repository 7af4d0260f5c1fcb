package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"parley/internal/app"
	"parley/internal/chat"
	parleyclient "parley/internal/client"
	"parley/internal/config"
	"parley/internal/logging"
	"parley/internal/store"
	"parley/internal/types"
)

const usageText = `parley is a chat client for agent sessions.

Usage:
  parley <command> [flags]

Commands:
  ui        run the interactive chat UI
  sessions  list sessions for a sub-project
  history   print a session's message history
  send      send a single message and print the response session id
  help      show help

Flags:
  -h, --help   show help

Examples:
  parley ui --project proj-1
  parley sessions --project proj-1
  parley history <session-id>
  parley send --project proj-1 "summarize the failing tests"
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	case "ui":
		exitOnErr("ui", runUI(args[1:]))
	case "sessions":
		exitOnErr("sessions", runSessions(args[1:]))
	case "history":
		exitOnErr("history", runHistory(args[1:]))
	case "send":
		exitOnErr("send", runSend(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func exitOnErr(command string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "parley %s: %v\n", command, err)
	os.Exit(1)
}

func runUI(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	project := fs.String("project", "", "sub-project id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return err
	}

	logPath, err := config.LogPath()
	if err != nil {
		return err
	}
	log, closer, err := logging.NewFile(logPath, logging.ParseLevel(cfg.LogLevel()))
	if err != nil {
		return err
	}
	defer closer.Close()

	statePath, err := config.StatePath()
	if err != nil {
		return err
	}
	prefs, err := store.Open(statePath)
	if err != nil {
		return err
	}
	defer prefs.Close()

	api, err := parleyclient.New(cfg)
	if err != nil {
		return err
	}

	return app.Run(api, prefs, cfg, *project, log)
}

func runSessions(args []string) error {
	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	project := fs.String("project", "", "sub-project id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	api, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sessions, err := api.SessionList(ctx, *project)
	if err != nil {
		return err
	}

	printSessions(sessions)
	return nil
}

func printSessions(sessions []types.SessionSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tMESSAGES\tLAST ACTIVE\tPREVIEW")
	for _, session := range sessions {
		if session.IsSubTask() {
			continue
		}
		lastActive := "-"
		if session.LastActiveAt != nil {
			lastActive = session.LastActiveAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", session.SessionID, session.MessageCount, lastActive, session.Preview)
	}
	w.Flush()
}

func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: parley history <session-id>")
	}
	sessionID := fs.Arg(0)

	api, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	wire, err := api.SessionMessages(ctx, sessionID)
	if err != nil {
		return err
	}

	// Run the snapshot through the same merge the UI uses so ordering and
	// hook filtering match what the UI would show.
	messages := chat.NewMessageStore()
	chat.NewReconciler(logging.Nop()).Merge(messages, sessionID, parleyclient.ToMessages(wire))
	for _, msg := range messages.Timeline() {
		fmt.Printf("[%s] %s: %s\n", msg.Timestamp.Local().Format("15:04:05"), msg.Role, msg.Content.Text)
	}
	return nil
}

func runSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	project := fs.String("project", "", "sub-project id")
	session := fs.String("session", "", "existing session id (omit to start a new session)")
	mode := fs.String("mode", string(store.PermissionModeAsk), "permission mode: ask, accept_edits, full_auto")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: parley send [flags] <prompt>")
	}
	permissionMode, ok := store.ParsePermissionMode(*mode)
	if !ok {
		return fmt.Errorf("unknown permission mode %q", *mode)
	}

	api, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	resp, err := api.SendMessage(ctx, parleyclient.SendMessageRequest{
		Prompt:         fs.Arg(0),
		SessionID:      *session,
		SubProjectID:   *project,
		PermissionMode: string(permissionMode),
	})
	if err != nil {
		return err
	}
	fmt.Println(resp.SessionID)
	return nil
}

func newClient() (*parleyclient.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return parleyclient.New(cfg)
}
