package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/auth"
	"spendwise/internal/capture"
	"spendwise/internal/cli"
	"spendwise/internal/config"
	"spendwise/internal/core"
	"spendwise/internal/records"
	"spendwise/internal/seed"
	"spendwise/internal/views"
)

type app struct {
	cfg       *config.Config
	store     *records.Store
	logger    *slog.Logger
	dashboard *views.Dashboard
	receipts  *views.Receipts
	accounts  *views.Accounts
	profile   *views.Profile
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	if cmd := os.Args[1]; cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	res := cli.OpenBackend(ctx, logger, cfg)
	defer res.Close()

	opts := []records.Option{records.WithLogger(logger)}
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change feed", "error", err)
		} else {
			defer client.Close()
			opts = append(opts, records.WithNotifier(client))
		}
	}
	store := records.NewStore(res.Store, opts...)

	var seeder *seed.Seeder
	if cfg.SeedOnStart {
		seeder = seed.New(store, seed.WithLogger(logger))
	}

	a := &app{
		cfg:    cfg,
		store:  store,
		logger: logger,
		dashboard: views.NewDashboard(store, seeder, views.DashboardConfig{
			PageSize:      cfg.PageSize,
			TopCategories: cfg.TopCategories,
			Recent:        cfg.RecentTransactions,
		}, logger),
		receipts: views.NewReceipts(store, capture.NewStubRecognizer(cfg.OCRDelay), logger),
		accounts: views.NewAccounts(store, cfg.SyncDelay, logger),
		profile:  views.NewProfile(auth.NewSession(auth.StubAuthenticator{}), logger),
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if records.IsWriteFailure(err) {
			fmt.Fprintln(os.Stderr, "Could not save your changes. Please try again.")
		}
		logger.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("spendwise - personal finance tracker")
	fmt.Println("\nUsage:")
	fmt.Println("  spendwise <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  dashboard              Show spending summary")
	fmt.Println("  more [-pages N]        Show transaction history, revealing N extra pages")
	fmt.Println("  category <id>          Show transactions of one category")
	fmt.Println("  receipts               List captured receipts")
	fmt.Println("  capture <image-uri>    Store a placeholder receipt for an image")
	fmt.Println("  scan <image-uri>       Recognize a receipt image and save it")
	fmt.Println("  save-receipt [flags]   Create or edit a receipt")
	fmt.Println("  delete-receipt <id>    Delete a receipt")
	fmt.Println("  accounts               List linked accounts")
	fmt.Println("  sync <account-id>      Refresh one account")
	fmt.Println("  signin <provider>      Sign in with apple or google")
	fmt.Println("  status                 Show stored collections and their health")
	fmt.Println("  reset [-yes]           Delete all stored data")
	fmt.Println("  help                   Show this help message")
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "dashboard":
		return a.runDashboard(ctx)
	case "more":
		return a.runHistory(ctx, args)
	case "category":
		return a.runCategory(ctx, args)
	case "receipts":
		return a.runReceipts(ctx)
	case "capture":
		return a.runCapture(ctx, args)
	case "scan":
		return a.runScan(ctx, args)
	case "save-receipt":
		return a.runSaveReceipt(ctx, args)
	case "delete-receipt":
		return a.runDeleteReceipt(ctx, args)
	case "accounts":
		return a.runAccounts(ctx)
	case "sync":
		return a.runSync(ctx, args)
	case "signin":
		return a.runSignIn(ctx, args)
	case "status":
		return a.runStatus(ctx)
	case "reset":
		return a.runReset(ctx, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (a *app) runDashboard(ctx context.Context) error {
	view, err := a.dashboard.Load(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Total spent:   %s\n", core.FormatAmount(view.TotalSpent))
	fmt.Printf("Transactions:  %d\n", view.TransactionCount)
	fmt.Printf("Receipts:      %d\n", view.ReceiptCount)

	if len(view.TopCategories) > 0 {
		fmt.Println("\nTop categories")
		for _, c := range view.TopCategories {
			fmt.Printf("  %-16s %10s  %5.1f%%\n", c.Category.Name, core.FormatAmount(c.Amount), c.Percentage)
		}
	}
	if len(view.Recent) > 0 {
		fmt.Println("\nRecent transactions")
		printTransactions(view.Recent)
	}
	return nil
}

func (a *app) runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("more", flag.ExitOnError)
	pages := fs.Int("pages", 1, "extra pages to reveal")
	fs.Parse(args)

	if _, err := a.dashboard.Load(ctx); err != nil {
		return err
	}
	for i := 0; i < *pages && a.dashboard.HasMoreHistory(); i++ {
		a.dashboard.LoadMoreHistory()
	}
	printTransactions(a.dashboard.History())
	if a.dashboard.HasMoreHistory() {
		fmt.Println("  ... more available")
	}
	return nil
}

func (a *app) runCategory(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: spendwise category <id>")
	}
	if _, err := a.dashboard.Load(ctx); err != nil {
		return err
	}
	detail, err := a.dashboard.OpenCategory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s across %d transactions\n", detail.Category.Name, core.FormatAmount(detail.Total), detail.Count())
	printTransactions(detail.Transactions())
	if detail.HasMore() {
		fmt.Println("  ... more available")
	}
	return nil
}

func (a *app) runReceipts(ctx context.Context) error {
	list := a.receipts.Load(ctx)
	if len(list) == 0 {
		fmt.Println("No receipts yet.")
		return nil
	}
	for _, r := range list {
		fmt.Printf("  %s  %-24s %10s  %s\n", r.Date.Format(time.DateOnly), r.MerchantName, core.FormatAmount(r.TotalAmount), r.ID)
	}
	return nil
}

func (a *app) runCapture(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: spendwise capture <image-uri>")
	}
	rec, err := a.receipts.Capture(ctx, capture.StaticSource{URI: args[0]})
	if err != nil {
		return err
	}
	fmt.Printf("Captured receipt %s\n", rec.ID)
	return nil
}

func (a *app) runScan(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: spendwise scan <image-uri>")
	}
	draft, err := a.receipts.Scan(ctx, args[0])
	if err != nil {
		return err
	}
	rec, err := a.receipts.Save(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s %s (confidence %.0f%%) as %s\n",
		rec.MerchantName, core.FormatAmount(rec.TotalAmount), draft.Confidence*100, rec.ID)
	return nil
}

func (a *app) runSaveReceipt(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("save-receipt", flag.ExitOnError)
	id := fs.String("id", "", "receipt id to edit (empty creates a new receipt)")
	merchant := fs.String("merchant", "", "merchant name")
	amount := fs.String("amount", "", "total amount, e.g. 12.75")
	category := fs.String("category", core.DefaultCategory, "category id")
	image := fs.String("image", "", "image uri")
	date := fs.String("date", "", "receipt date (YYYY-MM-DD, default today)")
	fs.Parse(args)

	d := views.Draft{
		ID:           *id,
		ImageURI:     *image,
		MerchantName: *merchant,
		TotalAmount:  *amount,
		Category:     *category,
	}
	if *date != "" {
		t, err := time.Parse(time.DateOnly, *date)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		d.Date = t
	}

	rec, err := a.receipts.Save(ctx, d)
	if errors.Is(err, core.ErrEmptyMerchant) {
		return errors.New("merchant name is required")
	}
	if err != nil {
		return err
	}
	fmt.Printf("Saved receipt %s\n", rec.ID)
	return nil
}

func (a *app) runDeleteReceipt(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: spendwise delete-receipt <id>")
	}
	return a.receipts.Delete(ctx, args[0])
}

func (a *app) runAccounts(ctx context.Context) error {
	list := a.accounts.Load(ctx)
	if len(list) == 0 {
		fmt.Println("No linked accounts.")
		return nil
	}
	for _, acc := range list {
		fmt.Printf("  %-12s %-16s ****%s %12s  [%s]\n",
			acc.InstitutionName, acc.AccountName, acc.AccountMask, core.FormatAmount(acc.Balance), acc.AccountType.Icon())
	}
	fmt.Printf("Total balance: %s\n", core.FormatAmount(a.accounts.TotalBalance()))
	return nil
}

func (a *app) runSync(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: spendwise sync <account-id>")
	}
	if err := a.accounts.Sync(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Account %s is up to date\n", args[0])
	return nil
}

func (a *app) runSignIn(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: spendwise signin <apple|google>")
	}
	provider, err := auth.ParseProvider(args[0])
	if err != nil {
		return err
	}
	u, err := a.profile.SignIn(ctx, provider)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s <%s>\n", u.Name, u.Email)
	return nil
}

func (a *app) runStatus(ctx context.Context) error {
	st, err := a.store.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Backend: %s\n", a.cfg.DataBackend)
	for _, c := range st {
		state := "ok"
		switch {
		case c.Recovered != nil:
			state = "unreadable: " + c.Recovered.Error()
		case !c.Present:
			state = "not created yet"
		}
		fmt.Printf("  %-13s %4d records  %s\n", c.Key, c.Count, state)
	}
	return nil
}

func (a *app) runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	yes := fs.Bool("yes", false, "confirm deletion of all stored data")
	fs.Parse(args)

	if !*yes {
		return errors.New("refusing to reset without -yes")
	}
	if err := a.store.Reset(ctx); err != nil {
		return err
	}
	fmt.Println("All data deleted.")
	return nil
}

func printTransactions(txns []core.Transaction) {
	for _, t := range txns {
		name := t.Category
		if c, ok := core.CategoryByID(t.Category); ok {
			name = c.Name
		}
		fmt.Printf("  %s  %-24s %-16s %10s\n", t.Date.Format(time.DateOnly), t.MerchantName, name, core.FormatExpense(t.Amount))
	}
}
