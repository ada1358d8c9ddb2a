package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"mealcircle-client/internal/api"
	"mealcircle-client/internal/models"
	"mealcircle-client/internal/services"
)

// chat opens the conversation with another user and runs an interactive
// thread: lines read from stdin are sent, new messages are printed as the
// thread polls
func (a *app) chat(ctx context.Context, args []string) error {
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	if err := needArgs(args, 1, "chat <user-id>"); err != nil {
		return err
	}

	me := a.session.User()
	conv, err := a.session.Client().OpenConversation(ctx, args[0])
	if err != nil {
		return err
	}
	other := conv.OtherParticipant(me.ID)

	var mu sync.Mutex
	printed := make(map[string]bool)
	thread := services.NewChatThread(a.session, conv.ID, services.ChatOptions{
		OtherUserID:   other.ID,
		OtherUserName: other.Name,
		Interval:      a.cfg.Polling.ChatInterval,
		OnUpdate: func(messages []models.Message) {
			mu.Lock()
			defer mu.Unlock()
			for _, m := range messages {
				if printed[m.ID] {
					continue
				}
				printed[m.ID] = true
				name := m.SenderName
				if m.SenderID == me.ID {
					name = "you"
				}
				fmt.Fprintf(a.out, "[%s] %s: %s\n", m.CreatedAt.Local().Format("15:04"), name, m.Content)
			}
		},
	})

	fmt.Fprintf(a.out, "Chatting with %s. Type a message and press enter, /quit to leave.\n", other.Name)
	thread.Open(ctx)
	defer thread.Close()

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines := readLines(readCtx, os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "/quit" {
				return nil
			}
			thread.SetDraft(line)
			if err := thread.Send(ctx); err != nil {
				fmt.Fprintln(os.Stderr, "Failed to send:", api.UserMessage(err, "Failed to send message"))
			}
		}
	}
}

// readLines scans r on its own goroutine. The channel is closed at end of
// input or once ctx is done; a line nobody receives is dropped.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
