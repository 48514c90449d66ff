package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mealtrackr/mealtrackr/config"
	"github.com/mealtrackr/mealtrackr/internal/apiclient"
	"github.com/mealtrackr/mealtrackr/internal/catalog"
	"github.com/mealtrackr/mealtrackr/internal/meallog"
	"github.com/mealtrackr/mealtrackr/internal/nutrition"
	"github.com/mealtrackr/mealtrackr/internal/session"
	"github.com/mealtrackr/mealtrackr/internal/types"
)

const usage = `usage: mealtrackr <command> [flags]

commands:
  register   create an account
  login      authenticate and persist the session
  logout     end the session
  profile    show or update the profile
  foods      search or create catalog foods
  log        show, add to or remove from the day's meal log
  summary    show daily/weekly/monthly nutrition summaries
`

// app bundles the wired SDK components.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	session *session.Store
	meals   *meallog.Reconciler
	foods   *catalog.Browser
	stats   *nutrition.Aggregator
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Missing .env files are fine; the environment may be set directly.
	_ = godotenv.Load()

	a, err := wire()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mealtrackr: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPTimeout+5*time.Second)
	defer cancel()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "mealtrackr: %v\n", err)
		os.Exit(1)
	}
}

func wire() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	tokens, err := session.OpenSQLiteTokenStore(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
		Tokens:  tokens,
		Logger:  log,
		OnUnauthorized: func() {
			if a.session != nil {
				a.session.HandleUnauthorized()
				a.meals.ResetAll()
			}
		},
	})
	if err != nil {
		return nil, err
	}

	a.session = session.New(client, tokens, log)
	a.meals = meallog.New(client, log)
	a.foods = catalog.New(catalog.Config{Client: client, Logger: log})
	a.stats = nutrition.New(client, log)
	return a, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.cmdRegister(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout(ctx)
	case "profile":
		return a.cmdProfile(ctx, args)
	case "foods":
		return a.cmdFoods(ctx, args)
	case "log":
		return a.cmdLog(ctx, args)
	case "summary":
		return a.cmdSummary(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireUser verifies the persisted session before an authenticated command.
func (a *app) requireUser(ctx context.Context) (*types.UserProfile, error) {
	a.session.Init(ctx)
	user := a.session.User()
	if user == nil {
		return nil, fmt.Errorf("not logged in (run `mealtrackr login`)")
	}
	return user, nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	goal := fs.Float64("goal", 0, "daily calorie goal")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" || *password == "" {
		return fmt.Errorf("register needs -username, -email and -password")
	}

	ok := a.session.Register(ctx, types.RegisterRequest{
		Username:         *username,
		Email:            *email,
		Password:         *password,
		DailyCalorieGoal: *goal,
	})
	if !ok {
		return fmt.Errorf("registration failed: %s", a.session.Err())
	}
	fmt.Printf("registered and logged in as %s\n", a.session.User().Username)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("user", "", "email or username")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" || *password == "" {
		return fmt.Errorf("login needs -user and -password")
	}

	if !a.session.Login(ctx, *user, *password) {
		return fmt.Errorf("login failed: %s", a.session.Err())
	}
	fmt.Printf("logged in as %s\n", a.session.User().Username)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.meals.ResetAll()
	fmt.Println("logged out")
	return nil
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	goal := fs.Float64("goal", -1, "set daily calorie goal")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	if *goal >= 0 {
		if err := a.session.UpdateProfile(ctx, types.UpdateProfileRequest{DailyCalorieGoal: goal}); err != nil {
			return err
		}
		user = a.session.User()
	}

	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	fmt.Printf("daily calorie goal: %.0f kcal\n", a.session.DailyCalorieGoal())
	if user.ProteinGoal > 0 || user.CarbGoal > 0 || user.FatGoal > 0 {
		fmt.Printf("macro goals: %.0fg protein / %.0fg carbs / %.0fg fat\n",
			user.ProteinGoal, user.CarbGoal, user.FatGoal)
	}
	return nil
}

func (a *app) cmdFoods(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("foods", flag.ExitOnError)
	query := fs.String("query", "", "search text")
	category := fs.String("category", "", "category filter")
	page := fs.Int("page", 1, "page number")
	create := fs.Bool("create", false, "create a food instead of listing")
	name := fs.String("name", "", "new food name")
	calories := fs.String("calories", "", "new food calories per 100g")
	proteins := fs.String("proteins", "0", "new food protein per 100g")
	carbs := fs.String("carbs", "0", "new food carbs per 100g")
	fats := fs.String("fats", "0", "new food fat per 100g")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *create {
		if _, err := a.requireUser(ctx); err != nil {
			return err
		}
		food, err := a.foods.Create(ctx, catalog.CreateParams{
			Name:     *name,
			Category: *category,
			Calories: *calories,
			Proteins: *proteins,
			Carbs:    *carbs,
			Fats:     *fats,
			IsPublic: true,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s): %.0f kcal/100g\n", food.Name, food.ID, food.Calories)
		return nil
	}

	a.foods.SetQueryNow(*query)
	a.foods.SetCategory(*category)
	a.foods.SetPage(*page)
	result, err := a.foods.Fetch(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%d foods (page %d, %d total)\n", len(result.Foods), result.Page, result.TotalCount)
	for _, f := range result.Foods {
		fmt.Printf("  %-24s %-12s %6.0f kcal/100g  [%s]\n", f.Name, f.Category, f.Calories, f.ID)
	}
	fmt.Printf("categories: %s\n", strings.Join(a.foods.Categories(), ", "))
	return nil
}

func (a *app) cmdLog(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	date := fs.String("date", time.Now().Format("2006-01-02"), "log date (YYYY-MM-DD)")
	add := fs.String("add", "", "food name or id to add")
	remove := fs.String("remove", "", "entry id to remove")
	meal := fs.String("meal", "lunch", "meal type (breakfast/lunch/dinner/snack)")
	qty := fs.Float64("qty", 100, "quantity in grams")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	if err := a.meals.LoadForDate(ctx, *date); err != nil {
		return err
	}

	mealType, err := meallog.ParseMealType(*meal)
	if err != nil && (*add != "" || *remove != "") {
		return err
	}

	if *add != "" {
		food, err := a.resolveFood(ctx, *add)
		if err != nil {
			return err
		}
		entry, err := a.meals.AddEntry(ctx, mealType, meallog.FoodRef{
			ID:       food.ID,
			Name:     food.Name,
			Calories: food.Calories,
		}, *qty)
		if err != nil {
			return err
		}
		fmt.Printf("added %s (%.0fg, %.1f kcal) to %s\n",
			entry.Name, entry.QuantityGrams, entry.ConsumedCalories(), mealType)
	}

	if *remove != "" {
		if err := a.meals.RemoveEntry(ctx, mealType, *remove); err != nil {
			return err
		}
		fmt.Printf("removed entry %s from %s\n", *remove, mealType)
	}

	for _, t := range meallog.MealTypes {
		entries := a.meals.Entries(t)
		if len(entries) == 0 {
			continue
		}
		fmt.Printf("%s:\n", t)
		for _, e := range entries {
			marker := ""
			if !e.ServerSaved {
				marker = " (unsaved)"
			}
			fmt.Printf("  %-24s %5.0fg %8.1f kcal%s  [%s]\n",
				e.Name, e.QuantityGrams, e.ConsumedCalories(), marker, e.ID)
		}
	}
	fmt.Printf("total: %.1f kcal of %.0f kcal goal\n", a.meals.TotalCalories(), a.session.DailyCalorieGoal())
	return nil
}

// resolveFood finds a catalog food by id or by best name match.
func (a *app) resolveFood(ctx context.Context, ref string) (types.Food, error) {
	a.foods.SetQueryNow(ref)
	page, err := a.foods.Fetch(ctx)
	if err != nil {
		return types.Food{}, err
	}
	for _, f := range page.Foods {
		if f.ID == ref || strings.EqualFold(f.Name, ref) {
			return f, nil
		}
	}
	if len(page.Foods) > 0 {
		return page.Foods[0], nil
	}
	return types.Food{}, fmt.Errorf("no food matches %q", ref)
}

func (a *app) cmdSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	dateStr := fs.String("date", time.Now().Format("2006-01-02"), "date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	date, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		return fmt.Errorf("invalid date %q", *dateStr)
	}

	if _, err := a.requireUser(ctx); err != nil {
		return err
	}

	summary, err := a.stats.Fetch(ctx, date)
	if err != nil {
		return err
	}

	goal := summary.Daily.DailyCalorieGoal
	if goal <= 0 {
		goal = session.DefaultDailyCalorieGoal
	}
	fmt.Printf("%s: %.1f / %.0f kcal (%.1fg protein, %.1fg carbs, %.1fg fat)\n",
		*dateStr, summary.Daily.Calories, goal,
		summary.Daily.Protein, summary.Daily.Carbs, summary.Daily.Fat)

	fmt.Println("week:")
	for _, d := range summary.Weekly {
		fmt.Printf("  %s %8.1f kcal\n", d.Date, d.TotalCalories)
	}
	fmt.Println("month:")
	for _, w := range summary.Monthly {
		fmt.Printf("  week %d %8.1f kcal\n", w.WeekNumber, w.TotalCalories)
	}
	return nil
}
