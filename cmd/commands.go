package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: mealcircle <command> [args]

Account:
  login <session-id>              exchange a one-time login id for a session
  logout                          end the session
  whoami                          show the logged-in user
  profile [flags]                 update height, weight, allergies, expertise
  guide <id> | unguide <id>       start or stop being guided by a guide
  guidees                         list the users you guide
  withdrawals [list|request]      cash out guide commission

Food:
  meals [--mine]                  list preset meals (and your own)
  meal <id>                       show one meal
  ingredients                     list DIY ingredients
  saved [list|add|rm]             saved DIY meals
  cart [list|add|rm|qty|clear]    manage the cart
  checkout [flags]                quote or place an order from the cart
  orders [list|cancel|status]     manage orders

Social:
  posts [list|create|edit|rm|vote]
                                  the feed
  comments <post-id> [text]       list or add comments
  notifications [read <id>]       activity addressed to you
  user <id>                       show a user's profile
  fan <id> | unfan <id>           follow or unfollow a user
  conversations                   list your conversations
  unread [--watch]                unread direct messages
  chat <user-id>                  open a conversation and chat

Tracking:
  habits [list|user|log|rm]       habit timeline
  addresses [list|add|rm|default] saved addresses
  delivery [check|orders|credits|status|undo]

Development:
  sandbox [--addr --seed]         run the in-memory backend
`)
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "profile":
		return a.profile(ctx, rest)
	case "guide", "unguide":
		return a.guide(ctx, cmd == "guide", rest)
	case "guidees":
		return a.guidees(ctx)
	case "withdrawals":
		return a.withdrawals(ctx, rest)
	case "meals":
		return a.meals(ctx, rest)
	case "meal":
		return a.meal(ctx, rest)
	case "ingredients":
		return a.ingredients(ctx)
	case "saved":
		return a.saved(ctx, rest)
	case "cart":
		return a.cartCmd(ctx, rest)
	case "checkout":
		return a.checkoutCmd(ctx, rest)
	case "orders":
		return a.orders(ctx, rest)
	case "posts":
		return a.posts(ctx, rest)
	case "comments":
		return a.comments(ctx, rest)
	case "notifications":
		return a.notifications(ctx, rest)
	case "user":
		return a.user(ctx, rest)
	case "fan", "unfan":
		return a.fan(ctx, cmd == "fan", rest)
	case "conversations":
		return a.conversations(ctx)
	case "unread":
		return a.unread(ctx, rest)
	case "chat":
		return a.chat(ctx, rest)
	case "habits":
		return a.habits(ctx, rest)
	case "addresses":
		return a.addresses(ctx, rest)
	case "delivery":
		return a.delivery(ctx, rest)
	default:
		usage(a.out)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func needArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: mealcircle %s", usage)
	}
	return nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return i, nil
}

func money(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
