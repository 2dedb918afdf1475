package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"pantry/internal/api"
	"pantry/internal/api/memory"
	"pantry/internal/api/rest"
	"pantry/internal/config"
	"pantry/internal/core"
	"pantry/internal/log"
	"pantry/internal/state"
	"pantry/internal/suggest"
	"pantry/internal/views"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.New(log.Config{Level: logLevel(cfg.LogLevel), Component: log.ComponentApp})
	log.SetDefault(logger)

	var backend api.Backend
	switch cfg.DataBackend {
	case "rest":
		client, err := rest.NewFromEnv()
		if err != nil {
			logger.Error("Failed to initialize API client", log.FieldError, err)
			os.Exit(1)
		}
		backend = client
		logger.Info("Initialized REST backend", log.FieldBackend, cfg.DataBackend)
	default:
		backend = seededStore()
		logger.Info("Initialized memory backend", log.FieldBackend, cfg.DataBackend)
	}

	input := bufio.NewScanner(os.Stdin)
	confirm := state.ConfirmerFunc(func(prompt string) bool {
		fmt.Printf("%s [y/N] ", prompt)
		if !input.Scan() {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(input.Text()))
		return answer == "y" || answer == "yes"
	})

	app := &app{
		inventory: state.NewInventory(backend, confirm, logger),
		receipts:  state.NewReceiptLog(backend, logger),
		settings:  state.NewSettings(backend, logger),
		suggester: suggest.New(backend, logger),
		input:     input,
	}
	app.calendar = views.NewCalendar(app.receipts, logger)

	app.run(context.Background())
}

type app struct {
	inventory *state.Inventory
	receipts  *state.ReceiptLog
	settings  *state.Settings
	suggester *suggest.Service
	calendar  *views.Calendar
	input     *bufio.Scanner
}

func (a *app) run(ctx context.Context) {
	fmt.Println("pantry — products | stats | next | prev | day N | use ID AMT | expiry ID DATE | freeze ID on|off | rm ID | add NAME QTY [PRICE] [CAT] | suggest KIND | settings | quit")
	for {
		fmt.Print("> ")
		if !a.input.Scan() {
			return
		}
		fields := strings.Fields(a.input.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		if err := a.dispatch(ctx, fields); err != nil {
			if errors.Is(err, state.ErrDeclined) {
				continue
			}
			fmt.Printf("error: %v\n", err)
		}
	}
}

func (a *app) dispatch(ctx context.Context, fields []string) error {
	switch fields[0] {
	case "products":
		return a.showProducts(ctx)
	case "stats":
		return a.showStatistics(ctx)
	case "next":
		a.renderGrid(a.calendar.Navigate(1))
		return nil
	case "prev":
		a.renderGrid(a.calendar.Navigate(-1))
		return nil
	case "day":
		if len(fields) != 2 {
			return errors.New("usage: day N")
		}
		day, err := strconv.Atoi(fields[1])
		if err != nil {
			return err
		}
		return a.openDay(ctx, day)
	case "use":
		if len(fields) != 3 {
			return errors.New("usage: use ID AMOUNT")
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		amount, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return err
		}
		return a.inventory.ApplyUsage(ctx, id, amount)
	case "expiry":
		if len(fields) != 3 {
			return errors.New("usage: expiry ID YYYY-MM-DD")
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		date, err := core.ParseDate(fields[2])
		if err != nil {
			return err
		}
		a.inventory.MarkModified(id)
		return a.inventory.CommitEdit(ctx, id, core.ProductPatch{ExpiryDate: &date})
	case "freeze":
		if len(fields) != 3 {
			return errors.New("usage: freeze ID on|off")
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		frozen := fields[2] == "on"
		a.inventory.MarkModified(id)
		return a.inventory.CommitEdit(ctx, id, core.ProductPatch{IsFrozen: &frozen})
	case "rm":
		if len(fields) != 2 {
			return errors.New("usage: rm ID")
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		return a.inventory.Remove(ctx, id)
	case "add":
		draft, err := parseAddArgs(fields[1:])
		if err != nil {
			return err
		}
		created, err := a.inventory.Create(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Printf("added #%d %s\n", created.ID, created.Name)
		return nil
	case "suggest":
		if len(fields) != 2 {
			return errors.New("usage: suggest meal|menu|shopping")
		}
		return a.showSuggestion(ctx, fields[1])
	case "settings":
		return a.showSettings(ctx)
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func (a *app) showProducts(ctx context.Context) error {
	a.inventory.CloseDetail()
	if err := a.inventory.Refresh(ctx); err != nil {
		return err
	}
	groups, err := views.GroupByCategory(a.inventory.Products())
	if errors.Is(err, views.ErrNoProducts) {
		fmt.Println("No products.")
		return nil
	}
	if err != nil {
		return err
	}
	for _, g := range groups {
		fmt.Printf("%s %s (%d)\n", g.Icon, g.Name, len(g.Products))
		for _, p := range g.Products {
			marker := " "
			if p.IsFrozen {
				marker = "❄"
			}
			expiry := ""
			if !p.ExpiryDate.IsEmpty() {
				expiry = " exp " + p.ExpiryDate.Key()
			}
			fmt.Printf("  %s #%d %s — %.2f %s%s\n", marker, p.ID, p.Name, p.Quantity, p.Unit, expiry)
		}
	}
	return nil
}

func (a *app) showStatistics(ctx context.Context) error {
	if err := a.receipts.Refresh(ctx); err != nil {
		return err
	}
	a.calendar.Rebuild()
	year, month := a.calendar.Current()
	a.renderGrid(a.calendar.View(year, month))
	return nil
}

func (a *app) openDay(ctx context.Context, day int) error {
	sel, err := a.calendar.SelectDay(day)
	if err != nil {
		return err
	}
	if sel.Direct != nil {
		return a.renderReceipt(ctx, *sel.Direct)
	}
	fmt.Println("Receipts that day:")
	for _, r := range sel.Choices {
		fmt.Printf("  #%d %s %s\n", r.ID, r.Shop, r.Total)
	}
	return nil
}

func (a *app) renderReceipt(ctx context.Context, r core.Receipt) error {
	detail, err := a.receipts.FetchDetail(ctx, r.ID)
	if err != nil {
		// Secondary view: degrade to an inline message.
		fmt.Printf("  #%d %s — detail unavailable: %v\n", r.ID, r.Shop, err)
		return nil
	}
	fmt.Printf("%s %s — %s\n", detail.Receipt.Date.Key(), detail.Receipt.Shop, detail.Receipt.Total)
	for _, item := range detail.Items {
		fmt.Printf("  %s %.2f %s × %s\n", item.Name, item.Quantity, item.Unit, item.UnitPrice)
	}
	return nil
}

func (a *app) renderGrid(grid views.Grid) {
	fmt.Printf("%d-%02d\n", grid.Year, grid.Month)
	fmt.Println("Mo Tu We Th Fr Sa Su")
	col := 0
	for _, cell := range grid.Cells {
		if cell.Blank {
			fmt.Print("   ")
		} else if cell.HasData {
			fmt.Printf("%2d*", cell.Day)
		} else {
			fmt.Printf("%2d ", cell.Day)
		}
		col++
		if col == 7 {
			fmt.Println()
			col = 0
		}
	}
	if col != 0 {
		fmt.Println()
	}
	for _, cell := range grid.Cells {
		if !cell.HasData {
			continue
		}
		labels := strings.Join(cell.Labels, ", ")
		if cell.Overflow > 0 {
			labels = fmt.Sprintf("%s +%d", labels, cell.Overflow)
		}
		fmt.Printf("  %2d: %s — %s\n", cell.Day, labels, cell.Total)
	}
}

func (a *app) showSuggestion(ctx context.Context, kind string) error {
	kinds := map[string]api.SuggestionKind{
		"meal":     api.SuggestMeal,
		"menu":     api.SuggestWeeklyMenu,
		"shopping": api.SuggestShoppingList,
	}
	k, ok := kinds[kind]
	if !ok {
		return fmt.Errorf("unknown suggestion kind %q", kind)
	}
	suggestion, err := a.suggester.Suggest(ctx, k)
	if err != nil {
		// Secondary view: degrade to an inline message.
		fmt.Printf("suggestion unavailable: %v\n", err)
		return nil
	}
	fmt.Println(suggestion.Text)
	return nil
}

func (a *app) showSettings(ctx context.Context) error {
	snap, err := a.settings.Load(ctx)
	if err != nil {
		return err
	}
	prefs, err := a.settings.LoadPreferences(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("database: %s@%s:%s/%s\n", snap.DatabaseUser, snap.DatabaseHost, snap.DatabasePort, snap.DatabaseName)
	fmt.Printf("model: %s (%s)\n", snap.ModelName, snap.ModelHost)
	fmt.Printf("diet: %s, allergens: %s\n", prefs.DietType, prefs.Allergen)
	return nil
}

// parseAddArgs builds a product draft from the add command arguments:
// NAME QTY [PRICE] [CATEGORY]. The price accepts both dot and comma
// decimal separators.
func parseAddArgs(args []string) (core.ProductDraft, error) {
	if len(args) < 2 {
		return core.ProductDraft{}, errors.New("usage: add NAME QTY [PRICE] [CATEGORY]")
	}
	qty, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return core.ProductDraft{}, err
	}
	draft := core.ProductDraft{Name: args[0], Quantity: qty, Unit: "szt"}
	if len(args) > 2 {
		cents, err := core.ParseDecimalToCents(args[2])
		if err != nil {
			return core.ProductDraft{}, fmt.Errorf("price %q: %w", args[2], err)
		}
		draft.Price = core.Money{Cents: cents}.Float64()
	}
	if len(args) > 3 {
		draft.Category = args[3]
	}
	return draft, nil
}

func seededStore() *memory.Store {
	store := memory.NewSeeded(
		[]core.Product{
			{ID: 1, Name: "Mleko", Category: "nabiał", Quantity: 2, Unit: "l", Shop: "Biedronka", ExpiryDate: core.NewDate(2026, 9, 5)},
			{ID: 2, Name: "Chleb", Category: "pieczywo", Quantity: 1, Unit: "szt", Shop: "Biedronka"},
			{ID: 3, Name: "Szpinak", Category: "warzywa", Quantity: 0.4, Unit: "kg", IsFrozen: true},
			{ID: 4, Name: "Papryka wędzona", Category: "przyprawy", Quantity: 1, Unit: "szt"},
		},
		[]core.Receipt{
			{ID: 10, Date: core.NewDate(2026, 8, 21), Shop: "Biedronka", Total: core.Money{Cents: 5000}},
			{ID: 11, Date: core.NewDate(2026, 8, 21), Shop: "Lidl", Total: core.Money{Cents: 3000}},
			{ID: 12, Date: core.NewDate(2026, 8, 27), Shop: "Żabka", Total: core.Money{Cents: 1250}},
		},
	)
	store.SeedReceiptItems(10, []core.ReceiptItem{
		{Name: "Mleko", Category: "nabiał", Quantity: 2, UnitPrice: core.Money{Cents: 350}, Unit: "l"},
		{Name: "Chleb", Category: "pieczywo", Quantity: 1, UnitPrice: core.Money{Cents: 420}, Unit: "szt"},
	})
	return store
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
