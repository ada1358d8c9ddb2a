package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"mealcircle-client/internal/services"
)

func (a *app) posts(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		fs := flag.NewFlagSet("posts", flag.ContinueOnError)
		skip := fs.Int("skip", 0, "posts to skip")
		limit := fs.Int("limit", 20, "posts to show")
		if err := fs.Parse(args); err != nil {
			return err
		}
		posts, err := a.session.Client().ListPosts(ctx, *skip, *limit)
		if err != nil {
			return err
		}
		for _, p := range posts {
			fmt.Fprintf(a.out, "[%s] %s · %s · ▲%d\n  %s\n", p.ID, p.UserName, p.CreatedAt.Local().Format("Jan 2 15:04"), p.VoteUps, p.Content)
		}
		return nil
	case "create":
		if _, err := a.requireUser(ctx); err != nil {
			return err
		}
		if err := needArgs(args, 1, "posts create <text>"); err != nil {
			return err
		}
		id, err := a.session.Client().CreatePost(ctx, strings.Join(args, " "), nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Post %s created\n", id)
		return nil
	case "edit":
		if _, err := a.requireUser(ctx); err != nil {
			return err
		}
		if err := needArgs(args, 2, "posts edit <post-id> <text>"); err != nil {
			return err
		}
		if err := a.session.Client().UpdatePost(ctx, args[0], strings.Join(args[1:], " "), nil); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Post updated")
		return nil
	case "rm":
		if _, err := a.requireUser(ctx); err != nil {
			return err
		}
		if err := needArgs(args, 1, "posts rm <post-id>"); err != nil {
			return err
		}
		if err := a.session.Client().DeletePost(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Post deleted")
		return nil
	case "vote":
		if _, err := a.requireUser(ctx); err != nil {
			return err
		}
		if err := needArgs(args, 1, "posts vote <post-id>"); err != nil {
			return err
		}
		res, err := a.session.Client().VotePost(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, res.Message)
		return nil
	default:
		return fmt.Errorf("unknown posts command %q", sub)
	}
}

func (a *app) comments(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "comments <post-id> [text]"); err != nil {
		return err
	}
	postID := args[0]
	if len(args) > 1 {
		if _, err := a.requireUser(ctx); err != nil {
			return err
		}
		if err := a.session.Client().AddComment(ctx, postID, strings.Join(args[1:], " ")); err != nil {
			return err
		}
	}
	comments, err := a.session.Client().ListComments(ctx, postID)
	if err != nil {
		return err
	}
	for _, c := range comments {
		fmt.Fprintf(a.out, "%s: %s\n", c.UserName, c.Content)
	}
	return nil
}

func (a *app) notifications(ctx context.Context, args []string) error {
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	client := a.session.Client()
	if len(args) >= 2 && args[0] == "read" {
		return client.MarkNotificationRead(ctx, args[1])
	}

	notifications, err := client.ListNotifications(ctx)
	if err != nil {
		return err
	}
	for _, n := range notifications {
		marker := "•"
		if n.Read {
			marker = " "
		}
		fmt.Fprintf(a.out, "%s [%s] %s\n", marker, n.ID, n.Message)
	}
	return nil
}

func (a *app) user(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "user <user-id>"); err != nil {
		return err
	}
	u, err := a.session.Client().GetUser(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s  ★%d  %d fans  %d points\n", u.Name, u.StarRating, len(u.Fans), u.Points)
	for _, p := range u.Posts {
		fmt.Fprintf(a.out, "  - %s\n", p.Content)
	}
	return nil
}

func (a *app) fan(ctx context.Context, become bool, args []string) error {
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	if err := needArgs(args, 1, "fan|unfan <user-id>"); err != nil {
		return err
	}
	client := a.session.Client()
	if become {
		if err := client.BecomeFan(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "You are now a fan")
		return nil
	}
	if err := client.Unfan(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Unfanned")
	return nil
}

func (a *app) conversations(ctx context.Context) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	conversations, err := a.session.Client().ListConversations(ctx)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tWITH\tUNREAD\tLAST")
	for _, c := range conversations {
		other := c.OtherParticipant(user.ID)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.ID, other.Name, c.UnreadFor(user.ID), c.LastMessage)
	}
	return tw.Flush()
}

func (a *app) unread(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("unread", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "keep polling and print changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	if !*watch {
		conversations, err := a.session.Client().ListConversations(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%d unread\n", services.SumUnread(conversations, user.ID))
		return nil
	}

	counter := services.NewUnreadCounter(ctx, a.session, a.cfg.Polling.UnreadInterval)
	defer counter.Close()

	last := -1
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		if n := counter.Count(); n != last {
			fmt.Fprintf(a.out, "%s  %d unread\n", time.Now().Format("15:04:05"), n)
			last = n
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
