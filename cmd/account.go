package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"mealcircle-client/internal/models"
)

func (a *app) login(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "login <session-id>"); err != nil {
		return err
	}
	if err := a.session.ProcessSessionID(ctx, args[0]); err != nil {
		return err
	}
	user := a.session.User()
	fmt.Fprintf(a.out, "Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintf(tw, "ID\t%s\n", user.ID)
	fmt.Fprintf(tw, "Name\t%s\n", user.Name)
	fmt.Fprintf(tw, "Email\t%s\n", user.Email)
	fmt.Fprintf(tw, "Points\t%d\n", user.Points)
	fmt.Fprintf(tw, "Stars\t%d\n", user.StarRating)
	fmt.Fprintf(tw, "Fans / Idols\t%d / %d\n", len(user.Fans), len(user.Idols))
	if user.IsGuide {
		fmt.Fprintf(tw, "Guidees\t%d\n", len(user.Guidees))
		fmt.Fprintf(tw, "Commission\t%s\n", money(user.CommissionBalance))
	}
	if p := user.Profile; p.Height != nil || p.Weight != nil || len(p.Allergies) > 0 {
		if p.Height != nil {
			fmt.Fprintf(tw, "Height\t%.1f cm\n", *p.Height)
		}
		if p.Weight != nil {
			fmt.Fprintf(tw, "Weight\t%.1f kg\n", *p.Weight)
		}
		if len(p.Allergies) > 0 {
			fmt.Fprintf(tw, "Allergies\t%s\n", strings.Join(p.Allergies, ", "))
		}
	}
	return tw.Flush()
}

func (a *app) profile(ctx context.Context, args []string) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	height := fs.Float64("height", 0, "height in cm")
	weight := fs.Float64("weight", 0, "weight in kg")
	allergies := fs.String("allergies", "", "comma separated allergies")
	expertise := fs.String("expertise", "", "guide expertise")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profile := user.Profile
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "height":
			profile.Height = height
		case "weight":
			profile.Weight = weight
		case "allergies":
			profile.Allergies = splitList(*allergies)
		case "expertise":
			profile.Expertise = *expertise
		}
	})

	if err := a.session.UpdateProfile(ctx, profile); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

func (a *app) guide(ctx context.Context, join bool, args []string) error {
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	if err := needArgs(args, 1, "guide|unguide <guide-user-id>"); err != nil {
		return err
	}
	client := a.session.Client()
	if join {
		if err := client.AddGuidee(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Added as guidee")
	} else {
		if err := client.RemoveGuidee(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Removed as guidee")
	}
	a.session.RefreshUser(ctx)
	return nil
}

func (a *app) guidees(ctx context.Context) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	if !user.IsGuide {
		return fmt.Errorf("only guides have guidees")
	}
	guidees, err := a.session.Client().MyGuidees(ctx)
	if err != nil {
		return err
	}
	if len(guidees) == 0 {
		fmt.Fprintln(a.out, "No guidees yet")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
	for _, g := range guidees {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", g.ID, g.Name, g.Email)
	}
	return tw.Flush()
}

func (a *app) withdrawals(ctx context.Context, args []string) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	if !user.IsGuide {
		return fmt.Errorf("only guides can withdraw commission")
	}
	client := a.session.Client()

	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
	case "request":
		fs := flag.NewFlagSet("withdrawals request", flag.ContinueOnError)
		upi := fs.String("upi", "", "UPI id to pay out to")
		phone := fs.String("phone", "", "contact number")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := needArgs(fs.Args(), 1, "withdrawals request [--upi id] [--phone n] <amount>"); err != nil {
			return err
		}
		amount, err := strconv.ParseFloat(fs.Arg(0), 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", fs.Arg(0))
		}
		if amount > user.CommissionBalance {
			return fmt.Errorf("insufficient commission balance (%s)", money(user.CommissionBalance))
		}
		if _, err := client.RequestWithdrawal(ctx, models.WithdrawalRequest{
			Amount:        amount,
			UPIID:         *upi,
			ContactNumber: *phone,
		}); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Withdrawal request submitted")
	default:
		return fmt.Errorf("unknown withdrawals command %q", sub)
	}

	withdrawals, err := client.MyWithdrawals(ctx)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintf(tw, "Balance\t%s\n", money(user.CommissionBalance))
	for _, w := range withdrawals {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", w.CreatedAt.Local().Format("2006-01-02"), money(w.Amount), w.Status)
	}
	return tw.Flush()
}
