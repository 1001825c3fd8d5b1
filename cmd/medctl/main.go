// medctl es la CLI para consultar y operar la API desde la terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"medication-manager/internal/client"
	"medication-manager/internal/platform/httpclient"

	"github.com/fatih/color"
)

const usage = `usage: medctl [flags] <command> [args]

commands:
  dashboard            resumen del día
  meds                 lista de medicamentos
  take <id>            registrar una dosis
  restock <id> <qty>   reponer stock
  overdue              recordatorios vencidos
  taken <id>           marcar recordatorio como tomado

env: MEDCTL_URL, MEDCTL_TOKEN, MEDCTL_EMAIL, MEDCTL_PASSWORD
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("medctl", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	baseURL := fs.String("url", envOr("MEDCTL_URL", "http://localhost:8080"), "API base URL")
	token := fs.String("token", os.Getenv("MEDCTL_TOKEN"), "bearer token")
	email := fs.String("email", os.Getenv("MEDCTL_EMAIL"), "login email (si no hay token)")
	password := fs.String("password", os.Getenv("MEDCTL_PASSWORD"), "login password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}

	hc, err := httpclient.New(httpclient.Options{BaseURL: *baseURL, Token: *token, Timeout: 10 * time.Second})
	if err != nil {
		return err
	}
	api := client.New(hc)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *token == "" && *email != "" {
		if _, err := api.Login(ctx, *email, *password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	out := os.Stdout
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "dashboard":
		d, err := api.Dashboard(ctx)
		if err != nil {
			return err
		}
		printDashboard(out, d)
	case "meds":
		items, err := api.Medicines(ctx)
		if err != nil {
			return err
		}
		printMedicines(out, items)
	case "take":
		id, err := argID(rest, 0)
		if err != nil {
			return err
		}
		m, err := api.TakeMedicine(ctx, id)
		if err != nil {
			return err
		}
		printMedicines(out, oneMedicine(m))
	case "restock":
		id, err := argID(rest, 0)
		if err != nil {
			return err
		}
		if len(rest) < 2 {
			return fmt.Errorf("restock needs <id> <qty>")
		}
		qty, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("invalid qty %q", rest[1])
		}
		m, err := api.Restock(ctx, id, qty)
		if err != nil {
			return err
		}
		printMedicines(out, oneMedicine(m))
	case "overdue":
		items, err := api.OverdueReminders(ctx)
		if err != nil {
			return err
		}
		printReminders(out, items)
	case "taken":
		id, err := argID(rest, 0)
		if err != nil {
			return err
		}
		r, err := api.MarkReminderTaken(ctx, id)
		if err != nil {
			return err
		}
		printReminders(out, oneReminder(r))
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func argID(args []string, i int) (int64, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing <id>")
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[i])
	}
	return id, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
