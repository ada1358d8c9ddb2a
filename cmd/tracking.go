package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"mealcircle-client/internal/models"
)

func (a *app) habits(ctx context.Context, args []string) error {
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	client := a.session.Client()

	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		habits, err := client.ListHabits(ctx)
		if err != nil {
			return err
		}
		a.printHabits(habits)
		return nil
	case "user":
		if err := needArgs(args, 1, "habits user <user-id>"); err != nil {
			return err
		}
		habits, err := client.ListUserHabits(ctx, args[0])
		if err != nil {
			return err
		}
		a.printHabits(habits)
		return nil
	case "log":
		fs := flag.NewFlagSet("habits log", flag.ContinueOnError)
		kind := fs.String("type", "meal", "habit type (meal, water, exercise, sleep, ...)")
		desc := fs.String("desc", "", "description")
		value := fs.Float64("value", 0, "measured value")
		unit := fs.String("unit", "", "unit of the value")
		date := fs.String("date", "", "date as YYYY-MM-DD, today when omitted")
		if err := fs.Parse(args); err != nil {
			return err
		}
		req := models.HabitRequest{HabitType: *kind, Description: *desc, Unit: *unit, Date: time.Now()}
		if *date != "" {
			d, err := time.ParseInLocation("2006-01-02", *date, time.Local)
			if err != nil {
				return fmt.Errorf("invalid date %q", *date)
			}
			req.Date = d
		}
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "value" {
				req.Value = value
			}
		})
		if err := client.LogHabit(ctx, req); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Habit logged")
		return nil
	case "rm":
		if err := needArgs(args, 1, "habits rm <habit-id>"); err != nil {
			return err
		}
		return client.DeleteHabit(ctx, args[0])
	default:
		return fmt.Errorf("unknown habits command %q", sub)
	}
}

func (a *app) printHabits(habits []models.Habit) {
	tw := a.table()
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tDESCRIPTION")
	for _, h := range habits {
		desc := h.Description
		if h.Value != nil {
			desc = fmt.Sprintf("%s (%g %s)", desc, *h.Value, h.Unit)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", h.ID, h.Date.Local().Format("2006-01-02"), h.HabitType, desc)
	}
	tw.Flush()
}

func (a *app) addresses(ctx context.Context, args []string) error {
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	client := a.session.Client()

	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	var err error
	switch sub {
	case "list":
	case "add":
		fs := flag.NewFlagSet("addresses add", flag.ContinueOnError)
		var addr models.Address
		fs.StringVar(&addr.Label, "label", "Home", "label")
		fs.StringVar(&addr.Apartment, "apartment", "", "flat or apartment")
		fs.StringVar(&addr.FullAddress, "address", "", "street address")
		fs.StringVar(&addr.City, "city", "", "city")
		fs.StringVar(&addr.State, "state", "", "state")
		fs.StringVar(&addr.Pincode, "pincode", "", "postal code")
		fs.StringVar(&addr.Phone, "phone", "", "contact phone")
		fs.BoolVar(&addr.IsDefault, "default", false, "make this the default address")
		if err := fs.Parse(args); err != nil {
			return err
		}
		err = client.AddAddress(ctx, addr)
	case "rm", "default":
		if err = needArgs(args, 1, "addresses "+sub+" <index>"); err == nil {
			var i int
			if i, err = parseIndex(args[0]); err == nil {
				if sub == "rm" {
					err = client.DeleteAddress(ctx, i)
				} else {
					err = client.SetDefaultAddress(ctx, i)
				}
			}
		}
	default:
		return fmt.Errorf("unknown addresses command %q", sub)
	}
	if err != nil {
		return err
	}

	addresses, err := client.ListAddresses(ctx)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "#\tLABEL\tADDRESS\tDEFAULT")
	for i, addr := range addresses {
		def := ""
		if addr.IsDefault {
			def = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s, %s %s\t%s\n", i, addr.Label, addr.FullAddress, addr.City, addr.Pincode, def)
	}
	return tw.Flush()
}

func (a *app) delivery(ctx context.Context, args []string) error {
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	client := a.session.Client()

	sub := "check"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	check, err := client.CheckDeliveryAgent(ctx)
	if err != nil {
		return err
	}
	if !check.IsDeliveryAgent {
		fmt.Fprintln(a.out, "You are not registered as a delivery agent")
		return nil
	}
	agent := check.Agent

	switch sub {
	case "check":
		fmt.Fprintf(a.out, "%s · %s %s · %s · wallet %s\n", agent.Name, agent.Vehicle, agent.VehicleNumber, agent.Status, money(agent.WalletBalance))
		return nil
	case "orders":
		orders, err := client.AgentOrders(ctx)
		if err != nil {
			return err
		}
		a.printOrders(orders)
		return nil
	case "credits":
		credits, err := client.AgentCredits(ctx)
		if err != nil {
			return err
		}
		tw := a.table()
		for _, c := range credits.Credits {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.CreatedAt.Local().Format("2006-01-02"), c.OrderID, money(c.Amount))
		}
		fmt.Fprintf(tw, "Balance\t\t%s\n", money(credits.TotalBalance))
		return tw.Flush()
	case "undo":
		if err := needArgs(args, 1, "delivery undo <order-id>"); err != nil {
			return err
		}
		if err := client.UndoDelivery(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Delivery undone, order is out for delivery again")
		return nil
	case "status":
		if err := needArgs(args, 1, "delivery status available|busy|offline"); err != nil {
			return err
		}
		if err := client.SetAgentStatus(ctx, agent.ID, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Status set to %s\n", args[0])
		return nil
	default:
		return fmt.Errorf("unknown delivery command %q", sub)
	}
}
