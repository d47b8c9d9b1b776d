// Package webapi exposes the ledger over HTTP using the Fiber framework.
// It is glue around the transaction engine: handlers bind and validate
// DTOs, resolve the caller's account, invoke the engine and map error
// kinds to status codes.
package webapi

import (
	"strconv"
	"time"

	"github.com/dkarpov/playerledger/pkg/config"
	domain "github.com/dkarpov/playerledger/pkg/domain/ledger"
	"github.com/dkarpov/playerledger/pkg/eventbus"
	"github.com/dkarpov/playerledger/pkg/money"
	authsvc "github.com/dkarpov/playerledger/pkg/service/auth"
	ledgersvc "github.com/dkarpov/playerledger/pkg/service/ledger"
	playersvc "github.com/dkarpov/playerledger/pkg/service/player"
	"github.com/dkarpov/playerledger/pkg/service/receipt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
)

// TransactionRequest is the payload for credit and debit operations. The
// amount travels as a decimal string so no precision is lost in JSON.
type TransactionRequest struct {
	ID     int64  `json:"id" validate:"min=0"`
	Amount string `json:"amount" validate:"required"`
}

// TransactionDTO is the API representation of a committed transaction.
type TransactionDTO struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	AccountID int64  `json:"account_id"`
	CreatedAt string `json:"created_at"`
}

// BalanceDTO is the API representation of an account balance.
type BalanceDTO struct {
	AccountID int64  `json:"account_id"`
	Balance   string `json:"balance"`
	Currency  string `json:"currency"`
}

func toTransactionDTO(tx *domain.Transaction) *TransactionDTO {
	if tx == nil {
		return nil
	}
	return &TransactionDTO{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Amount:    tx.Amount.Amount().String(),
		Currency:  string(tx.Amount.Currency()),
		AccountID: tx.AccountID,
		CreatedAt: tx.CreatedAt.Format(time.RFC3339),
	}
}

// AccountRoutes registers the account and transaction endpoints. All
// routes require a bearer token and operate on the caller's own account.
func AccountRoutes(
	app *fiber.App,
	engine *ledgersvc.Engine,
	players *playersvc.Service,
	auth *authsvc.Service,
	bus eventbus.Bus,
	cfg *config.AppConfig,
) {
	app.Post("/account/:id/credit", JwtProtected(cfg.Jwt), Commit(engine, players, auth, bus, domain.Credit))
	app.Post("/account/:id/debit", JwtProtected(cfg.Jwt), Commit(engine, players, auth, bus, domain.Debit))
	app.Get("/account/:id/balance", JwtProtected(cfg.Jwt), GetBalance(players, auth))
	app.Get("/account/:id/transactions", JwtProtected(cfg.Jwt), GetTransactions(engine, players, auth))
	app.Get("/account/:id/statement", JwtProtected(cfg.Jwt), GetStatement(engine, players, auth))
	app.Delete("/transaction/:id", JwtProtected(cfg.Jwt), DeleteTransaction(engine))
}

// ownAccount resolves the authenticated player's account and checks it
// matches the :id path parameter.
func ownAccount(c *fiber.Ctx, players *playersvc.Service, auth *authsvc.Service) (*domain.Account, error) {
	token, ok := c.Locals("player").(*jwt.Token)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "missing player context")
	}
	playerID, err := auth.CurrentPlayerID(token)
	if err != nil {
		return nil, err
	}
	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid account id")
	}
	account, err := players.Account(c.UserContext(), playerID)
	if err != nil {
		return nil, err
	}
	if account.ID != accountID {
		return nil, fiber.NewError(fiber.StatusForbidden, "not your account")
	}
	return account, nil
}

// Commit returns the handler committing a CREDIT or DEBIT transaction
// against the caller's account. After a successful commit it publishes a
// TransactionCommitted event for the auditor.
func Commit(
	engine *ledgersvc.Engine,
	players *playersvc.Service,
	auth *authsvc.Service,
	bus eventbus.Bus,
	typ domain.Type,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := ownAccount(c, players, auth)
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return ProblemDetailsJSON(c, fe.Code, fe.Message, fe.Message)
			}
			return ProblemDetailsJSON(c, ErrorToStatusCode(err), "Account lookup failed", err.Error())
		}
		input, err := BindAndValidate[TransactionRequest](c)
		if err != nil {
			return nil
		}
		amount, err := money.FromString(input.Amount, account.Currency())
		if err != nil {
			return ProblemDetailsJSON(c, fiber.StatusBadRequest, "Invalid amount", err.Error())
		}

		tx, err := engine.ProcessAndCommit(c.UserContext(), domain.NewTransaction(input.ID, typ, amount), account)
		if err != nil {
			log.Errorf("commit failed: %v", err)
			return ProblemDetailsJSON(c, ErrorToStatusCode(err), "Transaction not committed", err.Error())
		}
		if err := bus.Publish(c.UserContext(), domain.NewTransactionCommitted(tx, account)); err != nil {
			log.Errorf("publishing commit event: %v", err)
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "Transaction committed",
			Data:    toTransactionDTO(tx),
		})
	}
}

// GetBalance returns the handler reporting the account balance.
func GetBalance(players *playersvc.Service, auth *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := ownAccount(c, players, auth)
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return ProblemDetailsJSON(c, fe.Code, fe.Message, fe.Message)
			}
			return ProblemDetailsJSON(c, ErrorToStatusCode(err), "Account lookup failed", err.Error())
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Balance",
			Data: BalanceDTO{
				AccountID: account.ID,
				Balance:   account.Balance.Amount().String(),
				Currency:  string(account.Currency()),
			},
		})
	}
}

// GetTransactions returns the handler listing the account's transactions
// in store insertion order.
func GetTransactions(engine *ledgersvc.Engine, players *playersvc.Service, auth *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := ownAccount(c, players, auth)
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return ProblemDetailsJSON(c, fe.Code, fe.Message, fe.Message)
			}
			return ProblemDetailsJSON(c, ErrorToStatusCode(err), "Account lookup failed", err.Error())
		}
		txs, err := engine.FindByAccount(c.UserContext(), account.ID)
		if err != nil {
			return ProblemDetailsJSON(c, ErrorToStatusCode(err), "Listing failed", err.Error())
		}
		dtos := make([]*TransactionDTO, 0, len(txs))
		for _, tx := range txs {
			dtos = append(dtos, toTransactionDTO(tx))
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Transactions", Data: dtos})
	}
}

// GetStatement returns the handler rendering a period statement. Bounds
// come from the from/to query parameters as RFC 3339 dates; both are
// exclusive.
func GetStatement(engine *ledgersvc.Engine, players *playersvc.Service, auth *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := ownAccount(c, players, auth)
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return ProblemDetailsJSON(c, fe.Code, fe.Message, fe.Message)
			}
			return ProblemDetailsJSON(c, ErrorToStatusCode(err), "Account lookup failed", err.Error())
		}
		from, err := time.Parse(time.RFC3339, c.Query("from"))
		if err != nil {
			return ProblemDetailsJSON(c, fiber.StatusBadRequest, "Invalid period", "from must be RFC 3339")
		}
		to, err := time.Parse(time.RFC3339, c.Query("to"))
		if err != nil {
			return ProblemDetailsJSON(c, fiber.StatusBadRequest, "Invalid period", "to must be RFC 3339")
		}
		txs, err := engine.FindByPeriod(c.UserContext(), from, to, account.ID)
		if err != nil {
			return ProblemDetailsJSON(c, ErrorToStatusCode(err), "Statement failed", err.Error())
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(receipt.Statement(account, txs, from, to))
	}
}

// DeleteTransaction returns the handler removing one transaction. The
// account balance is left untouched (append-only ledger semantics).
func DeleteTransaction(engine *ledgersvc.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return ProblemDetailsJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		existed, err := engine.Delete(c.UserContext(), id)
		if err != nil {
			return ProblemDetailsJSON(c, ErrorToStatusCode(err), "Delete failed", err.Error())
		}
		if !existed {
			return ProblemDetailsJSON(c, fiber.StatusNotFound, "Not found", "no such transaction")
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Transaction deleted"})
	}
}
