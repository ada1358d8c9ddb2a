package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"mealcircle-client/internal/models"
	"mealcircle-client/internal/services"
)

func (a *app) meals(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("meals", flag.ContinueOnError)
	mine := fs.Bool("mine", false, "include meals you built")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var userID string
	if *mine {
		user, err := a.requireUser(ctx)
		if err != nil {
			return err
		}
		userID = user.ID
	}

	meals, err := a.session.Client().ListMeals(ctx, userID)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tTAGS")
	for _, m := range meals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Name, money(m.BasePrice), strings.Join(m.Tags, ","))
	}
	return tw.Flush()
}

func (a *app) meal(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "meal <id>"); err != nil {
		return err
	}
	m, err := a.session.Client().GetMeal(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s  %s\n", m.Name, money(m.BasePrice))
	if m.Description != "" {
		fmt.Fprintln(a.out, m.Description)
	}
	tw := a.table()
	for _, ing := range m.Ingredients {
		fmt.Fprintf(tw, "  %s\t%s\tx%g\n", ing.Name, money(ing.Price), ing.DefaultQuantity)
	}
	return tw.Flush()
}

func (a *app) ingredients(ctx context.Context) error {
	ingredients, err := a.session.Client().ListIngredients(ctx)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tUNIT")
	for _, ing := range ingredients {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ing.ID, ing.Name, money(ing.PricePerUnit), ing.Unit)
	}
	return tw.Flush()
}

// saved manages DIY meals kept for reordering. Ingredients are given as
// id or id:quantity and priced from the ingredient catalog.
func (a *app) saved(ctx context.Context, args []string) error {
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
	case "add":
		fs := flag.NewFlagSet("saved add", flag.ContinueOnError)
		name := fs.String("name", "", "meal name")
		picks := fs.String("ingredients", "", "comma separated ingredient ids, optionally id:quantity")
		if err := fs.Parse(args); err != nil {
			return err
		}
		req, err := a.buildSavedMeal(ctx, *name, splitList(*picks))
		if err != nil {
			return err
		}
		id, err := client.SaveMeal(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved %s as %s (%s)\n", req.MealName, id, money(req.TotalPrice))
		return nil
	case "rm":
		if err := needArgs(args, 1, "saved rm <saved-meal-id>"); err != nil {
			return err
		}
		if err := client.DeleteSavedMeal(ctx, args[0]); err != nil {
			return err
		}
	case "cart":
		if err := needArgs(args, 1, "saved cart <saved-meal-id>"); err != nil {
			return err
		}
		return a.savedToCart(ctx, args[0])
	default:
		return fmt.Errorf("unknown saved command %q", sub)
	}

	meals, err := client.ListSavedMeals(ctx)
	if err != nil {
		return err
	}
	if len(meals) == 0 {
		fmt.Fprintln(a.out, "No saved meals")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tINGREDIENTS\tPRICE")
	for _, m := range meals {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", m.ID, m.MealName, len(m.Ingredients), money(m.TotalPrice))
	}
	return tw.Flush()
}

func (a *app) buildSavedMeal(ctx context.Context, name string, picks []string) (models.SavedMealRequest, error) {
	if strings.TrimSpace(name) == "" || len(picks) == 0 {
		return models.SavedMealRequest{}, fmt.Errorf("usage: mealcircle saved add --name <name> --ingredients id[:qty],...")
	}
	catalog, err := a.session.Client().ListIngredients(ctx)
	if err != nil {
		return models.SavedMealRequest{}, err
	}
	byID := make(map[string]models.Ingredient, len(catalog))
	for _, ing := range catalog {
		byID[ing.ID] = ing
	}

	req := models.SavedMealRequest{MealName: name, Ingredients: []models.MealIngredient{}}
	for _, pick := range picks {
		id, qtyText, hasQty := strings.Cut(pick, ":")
		qty := 1.0
		if hasQty {
			if qty, err = strconv.ParseFloat(qtyText, 64); err != nil || qty <= 0 {
				return models.SavedMealRequest{}, fmt.Errorf("invalid quantity in %q", pick)
			}
		}
		ing, ok := byID[id]
		if !ok {
			return models.SavedMealRequest{}, fmt.Errorf("unknown ingredient %q", id)
		}
		q := qty
		req.Ingredients = append(req.Ingredients, models.MealIngredient{
			IngredientID:    ing.ID,
			Name:            ing.Name,
			Price:           ing.PricePerUnit,
			DefaultQuantity: 1,
			Quantity:        &q,
		})
		req.TotalPrice += ing.PricePerUnit * qty
	}
	return req, nil
}

func (a *app) savedToCart(ctx context.Context, id string) error {
	meals, err := a.session.Client().ListSavedMeals(ctx)
	if err != nil {
		return err
	}
	for _, m := range meals {
		if m.ID != id {
			continue
		}
		a.cart.Refresh(ctx)
		err := a.cart.Add(ctx, models.CartItem{
			MealName:       m.MealName,
			Customizations: m.Ingredients,
			Quantity:       1,
			Price:          m.TotalPrice,
		})
		if err != nil {
			return err
		}
		return a.printCart()
	}
	return fmt.Errorf("no saved meal %q", id)
}

func (a *app) printCart() error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Cart is empty")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "#\tMEAL\tQTY\tPRICE\tSUBTOTAL")
	for i, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", i, item.MealName, item.Quantity, money(item.Price), money(item.Subtotal()))
	}
	fmt.Fprintf(tw, "\t\t%d\t\t%s\n", a.cart.Count(), money(a.cart.TotalPrice()))
	return tw.Flush()
}

func (a *app) cartCmd(ctx context.Context, args []string) error {
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	a.cart.Refresh(ctx)

	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	var err error
	switch sub {
	case "list":
	case "add":
		err = a.cartAdd(ctx, args)
	case "rm":
		if err = needArgs(args, 1, "cart rm <index>"); err == nil {
			var i int
			if i, err = parseIndex(args[0]); err == nil {
				err = a.cart.Remove(ctx, i)
			}
		}
	case "qty":
		if err = needArgs(args, 2, "cart qty <index> <quantity>"); err == nil {
			var i, q int
			if i, err = parseIndex(args[0]); err == nil {
				if q, err = strconv.Atoi(args[1]); err == nil {
					err = a.cart.UpdateQuantity(ctx, i, q)
				}
			}
		}
	case "clear":
		err = a.cart.Clear(ctx)
	default:
		return fmt.Errorf("unknown cart command %q", sub)
	}
	if err != nil {
		return err
	}
	return a.printCart()
}

func (a *app) cartAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cart add", flag.ContinueOnError)
	mealID := fs.String("meal", "", "meal id from the catalog")
	name := fs.String("name", "", "name for a custom meal")
	price := fs.Float64("price", 0, "unit price for a custom meal")
	qty := fs.Int("qty", 1, "quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	item := models.CartItem{Quantity: *qty, Price: *price, MealName: *name}
	if *mealID != "" {
		meal, err := a.session.Client().GetMeal(ctx, *mealID)
		if err != nil {
			return err
		}
		item.MealID = meal.ID
		item.MealName = meal.Name
		item.Price = meal.BasePrice
		item.Customizations = meal.Ingredients
	}
	if item.MealName == "" {
		return fmt.Errorf("either --meal or --name is required")
	}
	return a.cart.Add(ctx, item)
}

func (a *app) checkoutCmd(ctx context.Context, args []string) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	coupon := fs.String("coupon", "", "coupon code")
	addressIndex := fs.Int("address", -1, "saved address index, default address when omitted")
	paymentID := fs.String("payment-id", "", "payment reference")
	forGuidee := fs.String("for", "", "guidee user id to order for")
	quoteOnly := fs.Bool("quote", false, "only show the price")
	if err := fs.Parse(args); err != nil {
		return err
	}

	quote, err := a.checkout.Quote(ctx, *coupon)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintf(tw, "Total\t%s\n", money(quote.Total))
	if quote.CouponCode != "" {
		fmt.Fprintf(tw, "Discount (%s)\t-%s\n", quote.CouponCode, money(quote.Discount))
	}
	fmt.Fprintf(tw, "To pay\t%s\n", money(quote.FinalPrice))
	if err := tw.Flush(); err != nil {
		return err
	}
	if *quoteOnly {
		return nil
	}

	address, err := a.pickAddress(ctx, *addressIndex)
	if err != nil {
		return err
	}

	created, err := a.checkout.PlaceOrder(ctx, services.CheckoutRequest{
		ShippingAddress: address,
		CouponCode:      *coupon,
		PaymentID:       *paymentID,
		ForGuideeID:     *forGuidee,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Order %s placed for %s\n", created.ID, user.Name)
	if created.CommissionEarned != nil {
		fmt.Fprintf(a.out, "Commission earned: %s\n", money(*created.CommissionEarned))
	}
	return nil
}

func (a *app) pickAddress(ctx context.Context, index int) (models.Address, error) {
	addresses, err := a.session.Client().ListAddresses(ctx)
	if err != nil {
		return models.Address{}, err
	}
	if len(addresses) == 0 {
		return models.Address{}, fmt.Errorf("no saved address, add one with `mealcircle addresses add`")
	}
	if index >= 0 {
		if index >= len(addresses) {
			return models.Address{}, fmt.Errorf("no address at index %d", index)
		}
		return addresses[index], nil
	}
	for _, addr := range addresses {
		if addr.IsDefault {
			return addr, nil
		}
	}
	return addresses[0], nil
}

func (a *app) orders(ctx context.Context, args []string) error {
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
		orders, err := client.ListOrders(ctx)
		if err != nil {
			return err
		}
		a.printOrders(orders)
		return nil
	case "cancel":
		if err := needArgs(args, 1, "orders cancel <order-id>"); err != nil {
			return err
		}
		if err := client.CancelOrder(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Order cancelled")
		return nil
	case "status":
		if err := needArgs(args, 2, "orders status <order-id> <status>"); err != nil {
			return err
		}
		if err := client.SetOrderStatus(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Order status updated")
		return nil
	default:
		return fmt.Errorf("unknown orders command %q", sub)
	}
}

func (a *app) printOrders(orders []models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tDATE\tITEMS\tTOTAL\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), len(o.Items), money(o.FinalPrice), o.Status)
	}
	tw.Flush()
}
