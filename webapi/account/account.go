package account

import (
	accountdom "github.com/amirasaad/minibank/pkg/domain/account"
	customerdom "github.com/amirasaad/minibank/pkg/domain/customer"
	accountsvc "github.com/amirasaad/minibank/pkg/service/account"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers HTTP routes for account operations. Deposits and
// transfers honour the Idempotency-Key header through idem.
//
// Routes:
//   - POST   /customers/:code/account       : Open the account of a customer.
//   - GET    /accounts                      : List all accounts.
//   - GET    /accounts/:code                : Get one account.
//   - GET    /accounts/:code/transfers      : Transfers sent and received.
//   - GET    /accounts/:code/transactions   : Every ledger entry, newest first.
//   - PUT    /accounts/:code/deposit        : Deposit funds.
//   - POST   /accounts/:code/transfer       : Transfer funds to another account.
func Routes(router fiber.Router, svc *accountsvc.Service, idem fiber.Handler) {
	router.Post("/customers/:code/account", OpenAccount(svc))
	router.Get("/accounts", ListAccounts(svc))
	router.Get("/accounts/:code", GetAccount(svc))
	router.Get("/accounts/:code/transfers", ListTransfers(svc))
	router.Get("/accounts/:code/transactions", ListTransactions(svc))
	router.Put("/accounts/:code/deposit", idem, Deposit(svc))
	router.Post("/accounts/:code/transfer", idem, Transfer(svc))
}

// OpenAccount returns a Fiber handler opening the single account of a customer.
// @Summary Open an account
// @Tags accounts
// @Produce json
// @Param code path string true "Customer code"
// @Success 200 {object} AccountResponse
// @Failure 404 {object} common.ErrorResponse "Customer not found"
// @Failure 409 {object} common.ErrorResponse "Customer already has an account"
// @Router /customers/{code}/account [post]
func OpenAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := common.ParseCode(c, customerdom.ErrCustomerNotFound)
		if err != nil {
			return err
		}
		a, err := svc.OpenAccount(c.UserContext(), code)
		if err != nil {
			return err
		}
		log.Infof("Account opened: %s for customer %s", a.Code, code)
		return c.JSON(ToAccountResponse(a))
	}
}

// ListAccounts returns a Fiber handler listing accounts in opening order.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} AccountResponse
// @Router /accounts [get]
func ListAccounts(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		as, err := svc.ListAccounts(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(toAccountResponses(as))
	}
}

// GetAccount returns a Fiber handler fetching one account by code.
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param code path string true "Account code"
// @Success 200 {object} AccountResponse
// @Failure 404 {object} common.ErrorResponse "Account not found"
// @Router /accounts/{code} [get]
func GetAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := common.ParseCode(c, accountdom.ErrAccountNotFound)
		if err != nil {
			return err
		}
		a, err := svc.GetAccount(c.UserContext(), code)
		if err != nil {
			return err
		}
		return c.JSON(ToAccountResponse(a))
	}
}

// ListTransfers returns a Fiber handler listing the transfers of an account.
// @Summary List transfers of an account
// @Tags accounts
// @Produce json
// @Param code path string true "Account code"
// @Success 200 {object} TransfersResponse
// @Failure 404 {object} common.ErrorResponse "Account not found"
// @Router /accounts/{code}/transfers [get]
func ListTransfers(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := common.ParseCode(c, accountdom.ErrAccountNotFound)
		if err != nil {
			return err
		}
		t, err := svc.ListTransfers(c.UserContext(), code)
		if err != nil {
			return err
		}
		return c.JSON(&TransfersResponse{
			Sent:     toTransactionResponses(t.Sent),
			Received: toTransactionResponses(t.Received),
		})
	}
}

// ListTransactions returns a Fiber handler listing the statement of an account.
// @Summary List ledger entries of an account
// @Tags accounts
// @Produce json
// @Param code path string true "Account code"
// @Success 200 {array} TransactionResponse
// @Failure 404 {object} common.ErrorResponse "Account not found"
// @Router /accounts/{code}/transactions [get]
func ListTransactions(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := common.ParseCode(c, accountdom.ErrAccountNotFound)
		if err != nil {
			return err
		}
		txs, err := svc.ListTransactions(c.UserContext(), code)
		if err != nil {
			return err
		}
		return c.JSON(toTransactionResponses(txs))
	}
}

// Deposit returns a Fiber handler adding funds to an account.
// @Summary Deposit funds into an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param code path string true "Account code"
// @Param Idempotency-Key header string false "Replays the first response for repeated keys"
// @Param request body DepositRequest true "Deposit details"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} common.ErrorResponse "Invalid amount"
// @Failure 404 {object} common.ErrorResponse "Account not found"
// @Failure 422 {object} common.ErrorResponse "Idempotency-Key reused with another body"
// @Failure 503 {object} common.ErrorResponse "Store unavailable"
// @Router /accounts/{code}/deposit [put]
func Deposit(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := common.ParseCode(c, accountdom.ErrAccountNotFound)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[DepositRequest](c)
		if err != nil {
			return err
		}
		a, err := svc.Deposit(c.UserContext(), code, input.Amount)
		if err != nil {
			return err
		}
		return c.JSON(ToAccountResponse(a))
	}
}

// Transfer returns a Fiber handler moving funds between two accounts.
// @Summary Transfer funds
// @Tags accounts
// @Accept json
// @Param code path string true "Sender account code"
// @Param Idempotency-Key header string false "Replays the first response for repeated keys"
// @Param request body TransferRequest true "Transfer details"
// @Success 204 "Transfer completed"
// @Failure 400 {object} common.ErrorResponse "Invalid amount or same account"
// @Failure 404 {object} common.ErrorResponse "Account not found"
// @Failure 409 {object} common.ErrorResponse "Insufficient funds"
// @Failure 503 {object} common.ErrorResponse "Store unavailable"
// @Router /accounts/{code}/transfer [post]
func Transfer(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sender, err := common.ParseCode(c, accountdom.ErrAccountNotFound)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if err != nil {
			return err
		}
		receiver, err := uuid.Parse(input.ReceiverCode)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "receiverCode must be a valid code")
		}
		tx, err := svc.Transfer(c.UserContext(), sender, receiver, input.Amount)
		if err != nil {
			return err
		}
		log.Infof("Transfer completed: %s", tx.Code)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
