package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/amirasaad/minibank/infra/initializer"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  customers                       list customers
  accounts                        list accounts with balances
  transfers <account-code>        list transfers sent and received
  deposit <account-code> <amount> deposit amount (major units)`

var (
	errUsage = errors.New("invalid usage")

	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	outColor    = color.New(color.FgRed)
	inColor     = color.New(color.FgGreen)
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}
	if err := start(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Println(usage)
		}
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err) //nolint:errcheck
		os.Exit(1)
	}
}

func start(args []string) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Log != nil {
		cfg.Log.Level = int(slog.LevelError)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	a := app.New(deps, cfg)
	defer a.Close() //nolint:errcheck

	return run(context.Background(), a, args, os.Stdout)
}

func run(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "customers":
		return listCustomers(ctx, a, out)
	case "accounts":
		return listAccounts(ctx, a, out)
	case "transfers":
		if len(args) < 2 {
			return errUsage
		}
		code, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid account code %q", args[1])
		}
		return listTransfers(ctx, a, code, out)
	case "deposit":
		if len(args) < 3 {
			return errUsage
		}
		code, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid account code %q", args[1])
		}
		amount, err := money.Parse(args[2])
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[2], err)
		}
		acc, err := a.AccountService.Deposit(ctx, code, amount)
		if err != nil {
			return err
		}
		okColor.Fprintf(out, "Deposited %s to account %s. New balance: %s\n", amount, acc.Code, acc.Balance) //nolint:errcheck
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func listCustomers(ctx context.Context, a *app.App, out io.Writer) error {
	cs, err := a.CustomerService.ListCustomers(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	headerColor.Fprintln(w, "CODE\tNAME\tEMAIL\tDATE OF BIRTH") //nolint:errcheck
	for _, c := range cs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Code, c.Name, c.Email, c.DateOfBirth.Format("2006-01-02"))
	}
	return w.Flush()
}

func listAccounts(ctx context.Context, a *app.App, out io.Writer) error {
	as, err := a.AccountService.ListAccounts(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	headerColor.Fprintln(w, "CODE\tCUSTOMER\tBALANCE") //nolint:errcheck
	for _, acc := range as {
		fmt.Fprintf(w, "%s\t%s\t%s\n", acc.Code, acc.CustomerCode, acc.Balance)
	}
	return w.Flush()
}

func listTransfers(ctx context.Context, a *app.App, code uuid.UUID, out io.Writer) error {
	t, err := a.AccountService.ListTransfers(ctx, code)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	headerColor.Fprintln(w, "DIRECTION\tCOUNTERPART\tAMOUNT\tAT") //nolint:errcheck
	for _, tx := range t.Sent {
		outColor.Fprintf(w, "sent\t%s\t-%s\t%s\n", tx.ReceiverCode, tx.Amount, tx.CreatedAt.Format("2006-01-02 15:04:05")) //nolint:errcheck
	}
	for _, tx := range t.Received {
		sender := "-"
		if tx.SenderCode != nil {
			sender = tx.SenderCode.String()
		}
		inColor.Fprintf(w, "received\t%s\t+%s\t%s\n", sender, tx.Amount, tx.CreatedAt.Format("2006-01-02 15:04:05")) //nolint:errcheck
	}
	return w.Flush()
}
