// Command cli is an interactive console against an in-memory ledger.
// Useful for demoing the engine without a database.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/dkarpov/playerledger/app"
	"github.com/dkarpov/playerledger/pkg/config"
	"github.com/dkarpov/playerledger/pkg/currency"
	domain "github.com/dkarpov/playerledger/pkg/domain/ledger"
	"github.com/dkarpov/playerledger/pkg/money"
	"github.com/dkarpov/playerledger/pkg/service/receipt"
	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.AppConfig{Env: "cli"}
	deps := app.NewInMemory(cfg, logger)
	ctx := context.Background()

	color.Cyan("playerledger console")
	fmt.Print("username: ")
	reader := bufio.NewReader(os.Stdin)
	username, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)

	fmt.Print("password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	player, account, err := deps.PlayerS.Register(
		ctx, username, username+"@local", string(password), currency.DefaultCurrency)
	if err != nil {
		return fmt.Errorf("creating session player: %w", err)
	}
	color.Green("welcome %s, account %d opened (%s)", player.Username, account.ID, account.Currency())
	fmt.Println("commands: credit <amount> [id], debit <amount> [id], balance, history, statement, quit")

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		// Work on the freshest copy so balances reflect earlier commands.
		account, err = deps.PlayerS.Account(ctx, player.ID)
		if err != nil {
			return err
		}

		switch fields[0] {
		case "credit", "debit":
			typ := domain.Credit
			if fields[0] == "debit" {
				typ = domain.Debit
			}
			if len(fields) < 2 {
				color.Red("usage: %s <amount> [id]", fields[0])
				continue
			}
			amount, err := money.FromString(fields[1], account.Currency())
			if err != nil {
				color.Red("invalid amount: %v", err)
				continue
			}
			var id int64
			if len(fields) > 2 {
				if id, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
					color.Red("invalid id: %v", err)
					continue
				}
			}
			tx, err := deps.Engine.ProcessAndCommit(ctx, domain.NewTransaction(id, typ, amount), account)
			if err != nil {
				color.Red("rejected: %v", err)
				continue
			}
			fmt.Print(receipt.Confirmation(tx, account))
		case "balance":
			color.Green("balance: %s", account.Balance)
		case "history":
			txs, err := deps.Engine.FindByAccount(ctx, account.ID)
			if err != nil {
				color.Red("%v", err)
				continue
			}
			for _, tx := range txs {
				fmt.Printf("%6d  %-6s  %s  %s\n",
					tx.ID, tx.Type, tx.Amount, tx.CreatedAt.Format(time.RFC3339))
			}
		case "statement":
			now := time.Now().UTC()
			txs, err := deps.Engine.FindByPeriod(ctx, now.Add(-24*time.Hour), now.Add(time.Minute), account.ID)
			if err != nil {
				color.Red("%v", err)
				continue
			}
			fmt.Print(receipt.Statement(account, txs, now.Add(-24*time.Hour), now.Add(time.Minute)))
		case "quit", "exit":
			return nil
		default:
			color.Red("unknown command: %s", fields[0])
		}
	}
}
