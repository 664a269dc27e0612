// Package shell implements the interactive MenuFácil command line.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atinyakov/menufacil/internal/billing"
	"github.com/atinyakov/menufacil/internal/models"
	"github.com/atinyakov/menufacil/internal/pantry"
	"github.com/atinyakov/menufacil/internal/service"
)

const help = `Available commands:
  register, login, logout, whoami
  plans, upgrade <pro|premium>, checkout <pro|premium>
  pantry, add, remove <id>, stats, expiring
  shop, buy, toggle <id>, drop <id>, suggestions, suggest
  recipes, plan, generate
  profile, edit-profile
  help, exit`

// Shell is a line-oriented front end for the service.
type Shell struct {
	svc          *service.Service
	in           *prompter
	out          io.Writer
	expiryWindow time.Duration
}

// New creates a Shell reading commands from in and writing to out.
func New(svc *service.Service, in io.Reader, out io.Writer, expiryWindow time.Duration) *Shell {
	return &Shell{
		svc:          svc,
		in:           &prompter{scanner: bufio.NewScanner(in), out: out},
		out:          out,
		expiryWindow: expiryWindow,
	}
}

// Run processes commands until "exit", end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) {
	for ctx.Err() == nil {
		fmt.Fprint(s.out, "menufacil> ")
		if !s.in.scanner.Scan() {
			fmt.Fprintln(s.out)
			return
		}
		args := strings.Fields(s.in.scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		if err := s.exec(ctx, args); err != nil {
			s.report(err)
		}
	}
}

func (s *Shell) exec(ctx context.Context, args []string) error {
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, help)
	case "register":
		email, password, name := s.in.ask("Email: "), s.in.ask("Password: "), s.in.ask("Name: ")
		user, err := s.svc.Register(ctx, email, password, name)
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Fprintln(s.out, "Email already registered")
			return nil
		}
		fmt.Fprintf(s.out, "Welcome, %s!\n", user.Name)
	case "login":
		user, err := s.svc.Login(ctx, s.in.ask("Email: "), s.in.ask("Password: "))
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Fprintln(s.out, "Invalid email or password")
			return nil
		}
		fmt.Fprintf(s.out, "Welcome back, %s!\n", user.Name)
	case "logout":
		if err := s.svc.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged out")
	case "whoami":
		return s.whoami(ctx)
	case "plans":
		for _, p := range s.svc.Plans() {
			fmt.Fprintf(s.out, "%-8s %-8s %s %s\n", p.ID, p.Name, billing.FormatPrice(p.Price), p.Period)
			for _, f := range p.Features {
				fmt.Fprintf(s.out, "         - %s\n", f)
			}
		}
	case "upgrade", "checkout":
		if len(args) < 2 {
			fmt.Fprintf(s.out, "Usage: %s <pro|premium>\n", args[0])
			return nil
		}
		tier, err := models.ParsePaidTier(args[1])
		if err != nil {
			return err
		}
		if args[0] == "upgrade" {
			ok, err := s.svc.UpgradePlan(ctx, tier)
			if err != nil {
				return err
			}
			if !ok {
				return service.ErrNotLoggedIn
			}
			fmt.Fprintf(s.out, "Plan upgraded to %s\n", tier)
			return nil
		}
		r, err := s.svc.Checkout(ctx, tier, s.in.payment())
		if err != nil {
			return err
		}
		if r.PixCode != "" {
			fmt.Fprintf(s.out, "PIX code:\n%s\n", r.PixCode)
		}
		fmt.Fprintf(s.out, "Paid %s for %s (receipt %s)\n", billing.FormatPrice(r.Amount), r.PlanID, r.ID)
	case "pantry":
		inv, err := s.svc.Ingredients(ctx)
		if err != nil {
			return err
		}
		s.printIngredients(inv)
	case "add":
		ing, err := s.svc.AddIngredient(ctx, s.in.ingredient())
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Added %s (%s)\n", ing.Name, ing.ID)
	case "remove", "toggle", "drop":
		return s.byID(ctx, args)
	case "stats":
		st, err := s.svc.PantryStats(ctx)
		if err != nil {
			return err
		}
		s.printStats(st)
	case "expiring":
		inv, err := s.svc.ExpiringSoon(ctx, s.expiryWindow)
		if err != nil {
			return err
		}
		s.printIngredients(inv)
	case "shop":
		list, err := s.svc.ShoppingList(ctx)
		if err != nil {
			return err
		}
		s.printShopping(list)
	case "buy":
		item, err := s.svc.AddShoppingItem(ctx, s.in.shoppingItem())
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Added %s (%s)\n", item.Name, item.ID)
	case "suggestions":
		for _, g := range s.svc.Suggestions() {
			fmt.Fprintln(s.out, g.Category)
			for _, it := range g.Items {
				fmt.Fprintf(s.out, "  %-20s %g %-3s %-9s %s\n", it.Name, it.Quantity, it.Unit, billing.FormatPrice(it.Price), it.Priority)
			}
		}
	case "suggest":
		names := splitNames(s.in.ask("Items to add (comma separated): "))
		fmt.Fprintf(s.out, "Estimated total: %s\n", billing.FormatPrice(s.svc.EstimateSuggestions(names)))
		added, err := s.svc.AddSuggestions(ctx, names)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%d item(s) added to the shopping list\n", len(added))
	case "recipes":
		s.printRecipes(s.svc.Recipes())
	case "plan":
		plan, err := s.svc.CurrentPlan(ctx)
		if err != nil {
			return err
		}
		s.printRecipes(plan)
	case "generate":
		res, err := s.svc.GenerateMealPlan(ctx)
		if err != nil {
			return err
		}
		s.printRecipes(res.Plan)
		fmt.Fprintf(s.out, "%d item(s) added to the shopping list\n", len(res.Additions))
	case "profile":
		p, err := s.svc.Profile(ctx)
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Fprintln(s.out, "No profile yet. Use edit-profile.")
			return nil
		}
		fmt.Fprintf(s.out, "%s <%s> household of %d\n", p.Name, p.Email, p.HouseholdSize)
		fmt.Fprintf(s.out, "restrictions: %s\nallergies: %s\ncuisines: %s\n",
			strings.Join(p.DietaryRestrictions, ", "), strings.Join(p.Allergies, ", "), strings.Join(p.PreferredCuisines, ", "))
	case "edit-profile":
		prev, err := s.svc.Profile(ctx)
		if err != nil {
			return err
		}
		if _, err := s.svc.SaveProfile(ctx, s.in.profile(prev)); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Profile saved")
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}

func (s *Shell) byID(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintf(s.out, "Usage: %s <id>\n", args[0])
		return nil
	}
	var (
		ok  bool
		err error
	)
	switch args[0] {
	case "remove":
		ok, err = s.svc.RemoveIngredient(ctx, args[1])
	case "toggle":
		ok, err = s.svc.ToggleShoppingItem(ctx, args[1])
	case "drop":
		ok, err = s.svc.RemoveShoppingItem(ctx, args[1])
	}
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.out, "Not found")
		return nil
	}
	fmt.Fprintln(s.out, "Done")
	return nil
}

func (s *Shell) whoami(ctx context.Context) error {
	sess, err := s.svc.CurrentSession(ctx)
	if err != nil {
		return err
	}
	active, err := s.svc.HasActiveSubscription(ctx)
	if err != nil {
		return err
	}
	if sess.User == nil {
		fmt.Fprintln(s.out, "Not logged in")
	} else {
		fmt.Fprintf(s.out, "%s <%s>\n", sess.User.Name, sess.User.Email)
	}
	if sub := sess.Subscription; sub != nil {
		fmt.Fprintf(s.out, "plan: %s (%s, active=%t)", sub.PlanID, sub.Status, active)
		if sub.EndDate != nil {
			fmt.Fprintf(s.out, " until %s", sub.EndDate.Format(time.DateOnly))
		}
		fmt.Fprintln(s.out)
	}
	return nil
}

func (s *Shell) report(err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(s.out, "Invalid input: %v\n", verr)
	case errors.Is(err, service.ErrNotLoggedIn):
		fmt.Fprintln(s.out, "Please log in first")
	case errors.Is(err, service.ErrIngredientLimit):
		fmt.Fprintln(s.out, "The free plan holds up to 20 ingredients. Upgrade to add more.")
	case errors.Is(err, billing.ErrPaymentDeclined):
		fmt.Fprintln(s.out, "Payment declined")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) printIngredients(inv []models.Ingredient) {
	if len(inv) == 0 {
		fmt.Fprintln(s.out, "Nothing here")
		return
	}
	for _, ing := range inv {
		fmt.Fprintf(s.out, "%s  %-20s %g %-4s %s", ing.ID, ing.Name, ing.Quantity, ing.Unit, ing.Category)
		if ing.ExpiryDate != nil {
			fmt.Fprintf(s.out, "  expires %s", ing.ExpiryDate.Format(time.DateOnly))
		}
		fmt.Fprintln(s.out)
	}
}

func (s *Shell) printStats(st pantry.Stats) {
	fmt.Fprintf(s.out, "%d item(s), total quantity %.0f, %d categor(ies)\n", st.TotalItems, st.TotalQuantity, st.Categories)
	for _, c := range models.IngredientCategories {
		if n := len(st.ByCategory[c]); n > 0 {
			fmt.Fprintf(s.out, "  %-12s %d\n", c, n)
		}
	}
}

func (s *Shell) printShopping(list []models.ShoppingItem) {
	if len(list) == 0 {
		fmt.Fprintln(s.out, "Nothing here")
		return
	}
	for _, it := range list {
		box := "[ ]"
		if it.Checked {
			box = "[x]"
		}
		origin := "auto"
		if it.IsManual {
			origin = "manual"
		}
		fmt.Fprintf(s.out, "%s %s  %-20s %g %-4s %s\n", box, it.ID, it.Name, it.Quantity, it.Unit, origin)
	}
}

func (s *Shell) printRecipes(recipes []models.Recipe) {
	if len(recipes) == 0 {
		fmt.Fprintln(s.out, "Nothing here")
		return
	}
	for _, r := range recipes {
		fmt.Fprintf(s.out, "%-9s %s (%d min)\n", r.Category, r.Name, r.PrepTime)
		for _, ri := range r.Ingredients {
			fmt.Fprintf(s.out, "          - %g %s %s\n", ri.Quantity, ri.Unit, ri.Name)
		}
	}
}

func splitNames(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
