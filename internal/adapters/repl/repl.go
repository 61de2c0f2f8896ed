// Package repl is the interactive terminal adapter. Everything goes
// through the ApplicationService; the REPL never touches the boundary.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"salesflow/internal/app"
	"salesflow/internal/core"
)

// Run starts the interactive REPL loop: login, persona selection, then
// slash-command dispatch until /exit.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("SalesFlow")
	fmt.Println("Sign in to continue.")
	fmt.Println(strings.Repeat("-", 70))

	session := loginLoop(ctx, svc, reader)
	if session == nil {
		return
	}
	session = personaLoop(svc, reader, session)

	fmt.Printf("\nSigned in as %s (%s). Type /help for commands.\n", session.Username, session.Persona)

	errExit := errors.New("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "catalog", "cat":
			result, err := svc.FetchCatalog(ctx)
			if err != nil {
				return err
			}
			printCatalog(result)

		case "customers":
			result, err := svc.FetchCatalog(ctx)
			if err != nil {
				return err
			}
			printCustomers(result.Catalog.Customers)

		case "products":
			result, err := svc.FetchCatalog(ctx)
			if err != nil {
				return err
			}
			printProducts(result.Catalog.Products)

		case "refresh":
			result, err := svc.RefreshCatalog(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Catalog refreshed: %d customers, %d products.\n",
				len(result.Catalog.Customers), len(result.Catalog.Products))

		case "preview":
			handlePreview(reader, svc)

		case "sale", "new-sale":
			runSaleWizard(ctx, reader, svc)

		case "payment":
			if len(args) < 2 {
				fmt.Println("Usage: /payment <sale-id> <amount> [method]")
				return nil
			}
			saleID, err := strconv.Atoi(args[0])
			if err != nil || saleID <= 0 {
				fmt.Printf("Invalid sale id: %s\n", args[0])
				return nil
			}
			amount, err := decimal.NewFromString(args[1])
			if err != nil || !amount.IsPositive() {
				fmt.Printf("Invalid amount: %s\n", args[1])
				return nil
			}
			method := "cash"
			if len(args) >= 3 {
				method = args[2]
			}
			result, err := svc.RecordPayment(ctx, app.RecordPaymentRequest{
				SaleID:        saleID,
				Amount:        amount,
				PaymentMethod: method,
			})
			if err != nil {
				return err
			}
			// The verdict text comes from the server; print it as-is.
			fmt.Println(result.Message)

		case "persona":
			if len(args) < 1 {
				fmt.Println("Usage: /persona <admin|salesperson>")
				return nil
			}
			next, err := svc.SelectPersona(*session, args[0])
			if err != nil {
				return err
			}
			session = next
			fmt.Printf("Now acting as %s.\n", session.Persona)

		case "whoami":
			fmt.Printf("%s (%s)\n", session.Username, session.Persona)

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !strings.HasPrefix(input, "/") {
			fmt.Println("Commands start with a slash — type /help.")
			continue
		}
		if err := dispatchSlash(input); err != nil {
			if err == errExit {
				fmt.Println("Goodbye!")
				return
			}
			fmt.Printf("Error: %v\n", err)
		}
	}
}

// loginLoop prompts for credentials until login succeeds or input ends.
// Cooldown rejections print the remaining wait so the user knows when to
// retry.
func loginLoop(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) *core.Session {
	for {
		fmt.Print("Username: ")
		username, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}

		fmt.Print("Password: ")
		password, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		password = strings.TrimSpace(password)

		session, err := svc.Login(ctx, username, password)
		if err == nil {
			return session
		}

		var cooldown *app.CooldownError
		if errors.As(err, &cooldown) {
			secs := int(math.Ceil(cooldown.Remaining.Seconds()))
			fmt.Printf("Too many attempts. Wait %d seconds and try again.\n", secs)
			continue
		}
		var authErr *app.AuthError
		if errors.As(err, &authErr) {
			fmt.Println(authErr.Message)
			continue
		}
		fmt.Printf("Login error: %v\n", err)
	}
}

// personaLoop asks which persona to act as, defaulting to salesperson.
func personaLoop(svc app.ApplicationService, reader *bufio.Reader, session *core.Session) *core.Session {
	for {
		fmt.Print("Persona (admin/salesperson) [salesperson]: ")
		raw, err := reader.ReadString('\n')
		if err != nil {
			raw = ""
		}
		raw = strings.TrimSpace(strings.ToLower(raw))
		if raw == "" {
			raw = string(core.PersonaSalesperson)
		}
		next, perr := svc.SelectPersona(*session, raw)
		if perr != nil {
			fmt.Printf("Unknown persona: %s\n", raw)
			continue
		}
		return next
	}
}

// handlePreview collects projection inputs and prints the schedule.
// Pure preview; nothing is committed.
func handlePreview(reader *bufio.Reader, svc app.ApplicationService) {
	total, ok := promptDecimal(reader, "Total amount: ")
	if !ok {
		return
	}
	down, ok := promptDecimal(reader, "Down payment [0]: ")
	if !ok {
		return
	}
	rate, ok := promptDecimal(reader, "Interest rate % [0]: ")
	if !ok {
		return
	}
	count, ok := promptInt(reader, "Number of installments: ")
	if !ok {
		return
	}

	fmt.Print("Recurrence (day/week/month/year) [month]: ")
	unit, _ := reader.ReadString('\n')
	unit = strings.TrimSpace(strings.ToLower(unit))
	if unit == "" {
		unit = "month"
	}

	interval, ok := promptInt(reader, "Every N units [1]: ")
	if !ok {
		interval = 1
	}

	fmt.Print("Start date (YYYY-MM-DD, blank = today): ")
	start, _ := reader.ReadString('\n')
	start = strings.TrimSpace(start)

	result, err := svc.PreviewSchedule(app.PreviewScheduleRequest{
		TotalAmount:         total,
		DownPayment:         down,
		InterestRatePercent: rate,
		Installments:        count,
		RecurrenceUnit:      unit,
		RecurrenceInterval:  interval,
		StartDate:           start,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	printProjection(result.Projection)
}

// promptDecimal reads a decimal, treating blank as zero. Returns false
// only on read failure.
func promptDecimal(reader *bufio.Reader, prompt string) (decimal.Decimal, bool) {
	for {
		fmt.Print(prompt)
		raw, err := reader.ReadString('\n')
		if err != nil {
			return decimal.Zero, false
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return decimal.Zero, true
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			fmt.Println("  Invalid amount.")
			continue
		}
		return d, true
	}
}

// promptInt reads a positive integer; blank returns false.
func promptInt(reader *bufio.Reader, prompt string) (int, bool) {
	for {
		fmt.Print(prompt)
		raw, err := reader.ReadString('\n')
		if err != nil {
			return 0, false
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return 0, false
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fmt.Println("  Invalid number.")
			continue
		}
		return n, true
	}
}
