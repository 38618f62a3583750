package account_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/amirasaad/minibank/pkg/money"
	"github.com/amirasaad/minibank/webapi/account"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/amirasaad/minibank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AccountTestSuite struct {
	testutils.APITestSuite
}

func TestAccountTestSuite(t *testing.T) {
	suite.Run(t, new(AccountTestSuite))
}

func (s *AccountTestSuite) getAccount(code string) account.AccountResponse {
	resp := s.MakeRequest(fiber.MethodGet, "/api/v1/accounts/"+code, "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var out account.AccountResponse
	s.Decode(resp, &out)
	return out
}

func (s *AccountTestSuite) transfer(from, to, amount string, headers ...string) int {
	resp := s.MakeRequest(fiber.MethodPost, "/api/v1/accounts/"+from+"/transfer",
		fmt.Sprintf(`{"receiverCode":%q,"amount":%s}`, to, amount), headers...)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func (s *AccountTestSuite) TestOpenAccount() {
	customerCode := s.CreateCustomer("Alex", "alex@example.com")

	resp := s.MakeRequest(fiber.MethodPost, "/api/v1/customers/"+customerCode+"/account", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var a account.AccountResponse
	s.Decode(resp, &a)
	s.Equal(customerCode, a.CustomerCode.String())
	s.NotEqual(a.CustomerCode, a.Code)
	s.Equal(money.Amount(0), a.Balance)

	resp = s.MakeRequest(fiber.MethodPost, "/api/v1/customers/"+customerCode+"/account", "")
	s.Equal(fiber.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodPost, "/api/v1/customers/"+uuid.NewString()+"/account", "")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodGet, "/api/v1/accounts", "")
	var list []account.AccountResponse
	s.Decode(resp, &list)
	s.Len(list, 1)
}

func (s *AccountTestSuite) TestDeposit() {
	code := s.FundedAccount("alex@example.com", "")

	resp := s.MakeRequest(fiber.MethodPut, "/api/v1/accounts/"+code+"/deposit", `{"amount":12.50}`)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var a account.AccountResponse
	s.Decode(resp, &a)
	s.Equal(money.Amount(1250), a.Balance)

	for _, body := range []string{
		`{"amount":0}`,
		`{"amount":-5}`,
		`{"amount":0.5}`,
		`{"amount":100000.01}`,
		`{"amount":1.001}`,
		`{"amount":"abc"}`,
		`{}`,
	} {
		resp := s.MakeRequest(fiber.MethodPut, "/api/v1/accounts/"+code+"/deposit", body)
		s.Equal(fiber.StatusBadRequest, resp.StatusCode, body)
		_ = resp.Body.Close()
	}
	s.Equal(money.Amount(1250), s.getAccount(code).Balance)

	resp = s.MakeRequest(fiber.MethodPut, "/api/v1/accounts/"+uuid.NewString()+"/deposit", `{"amount":10}`)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func (s *AccountTestSuite) TestUnknownAccountReportedBeforeAmount() {
	for _, body := range []string{`{"amount":0}`, `{}`} {
		resp := s.MakeRequest(fiber.MethodPut, "/api/v1/accounts/"+uuid.NewString()+"/deposit", body)
		s.Equal(fiber.StatusNotFound, resp.StatusCode, body)
		_ = resp.Body.Close()
	}

	b := s.FundedAccount("b@example.com", "")
	s.Equal(fiber.StatusNotFound, s.transfer(uuid.NewString(), b, "0"))

	// a known account still rejects the amount
	resp := s.MakeRequest(fiber.MethodPut, "/api/v1/accounts/"+b+"/deposit", `{}`)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func (s *AccountTestSuite) TestTransfer() {
	a := s.FundedAccount("a@example.com", "100")
	b := s.FundedAccount("b@example.com", "")

	s.Equal(fiber.StatusNoContent, s.transfer(a, b, "40"))
	s.Equal(money.MustFromMajor(60), s.getAccount(a).Balance)
	s.Equal(money.MustFromMajor(40), s.getAccount(b).Balance)

	s.Equal(fiber.StatusConflict, s.transfer(a, b, "60.01"))
	s.Equal(fiber.StatusBadRequest, s.transfer(a, a, "1"))
	s.Equal(fiber.StatusBadRequest, s.transfer(a, b, "0"))
	s.Equal(fiber.StatusNotFound, s.transfer(a, uuid.NewString(), "1"))
	s.Equal(fiber.StatusNotFound, s.transfer(uuid.NewString(), b, "1"))
	s.Equal(fiber.StatusBadRequest, s.transfer(a, "nope", "1"))

	s.Equal(money.MustFromMajor(60), s.getAccount(a).Balance)

	resp := s.MakeRequest(fiber.MethodGet, "/api/v1/accounts/"+a+"/transfers", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var transfers account.TransfersResponse
	s.Decode(resp, &transfers)
	s.Require().Len(transfers.Sent, 1)
	s.Empty(transfers.Received)
	s.Equal(money.MustFromMajor(40), transfers.Sent[0].Amount)
	s.Equal("transfer", transfers.Sent[0].Kind)
	s.Require().NotNil(transfers.Sent[0].SenderCode)
	s.Equal(a, transfers.Sent[0].SenderCode.String())

	resp = s.MakeRequest(fiber.MethodGet, "/api/v1/accounts/"+a+"/transactions", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var txs []account.TransactionResponse
	s.Decode(resp, &txs)
	s.Require().Len(txs, 2)
	s.Equal("transfer", txs[0].Kind)
	s.Equal("deposit", txs[1].Kind)
	s.Nil(txs[1].SenderCode)

	resp = s.MakeRequest(fiber.MethodGet, "/api/v1/accounts/"+uuid.NewString()+"/transfers", "")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func (s *AccountTestSuite) TestConcurrentTransfersConserveMoney() {
	a := s.FundedAccount("a@example.com", "50")
	b := s.FundedAccount("b@example.com", "50")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		from, to := a, b
		if i%2 == 1 {
			from, to = b, a
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.transfer(from, to, "7")
		}()
	}
	wg.Wait()

	total := s.getAccount(a).Balance + s.getAccount(b).Balance
	s.Equal(money.MustFromMajor(100), total)
}

func (s *AccountTestSuite) TestDeposit_IdempotencyKey() {
	code := s.FundedAccount("alex@example.com", "")
	path := "/api/v1/accounts/" + code + "/deposit"

	first := s.MakeRequest(fiber.MethodPut, path, `{"amount":10}`, common.HeaderIdempotencyKey, "dep-1")
	s.Equal(fiber.StatusOK, first.StatusCode)
	s.Empty(first.Header.Get(common.HeaderIdempotentReplayed))
	var a1 account.AccountResponse
	s.Decode(first, &a1)

	again := s.MakeRequest(fiber.MethodPut, path, `{"amount":10}`, common.HeaderIdempotencyKey, "dep-1")
	s.Equal(fiber.StatusOK, again.StatusCode)
	s.Equal("true", again.Header.Get(common.HeaderIdempotentReplayed))
	var a2 account.AccountResponse
	s.Decode(again, &a2)
	s.Equal(a1, a2)
	s.Equal(money.MustFromMajor(10), s.getAccount(code).Balance)

	other := s.MakeRequest(fiber.MethodPut, path, `{"amount":20}`, common.HeaderIdempotencyKey, "dep-1")
	s.Equal(fiber.StatusUnprocessableEntity, other.StatusCode)
	_ = other.Body.Close()

	// rejected requests are replayed too
	bad := s.MakeRequest(fiber.MethodPut, path, `{"amount":0}`, common.HeaderIdempotencyKey, "dep-2")
	s.Equal(fiber.StatusBadRequest, bad.StatusCode)
	_ = bad.Body.Close()
	bad = s.MakeRequest(fiber.MethodPut, path, `{"amount":0}`, common.HeaderIdempotencyKey, "dep-2")
	s.Equal(fiber.StatusBadRequest, bad.StatusCode)
	s.Equal("true", bad.Header.Get(common.HeaderIdempotentReplayed))
	_ = bad.Body.Close()
}

func (s *AccountTestSuite) TestTransfer_IdempotencyKey() {
	a := s.FundedAccount("a@example.com", "100")
	b := s.FundedAccount("b@example.com", "")

	s.Equal(fiber.StatusNoContent, s.transfer(a, b, "25", common.HeaderIdempotencyKey, "t-1"))
	s.Equal(fiber.StatusNoContent, s.transfer(a, b, "25", common.HeaderIdempotencyKey, "t-1"))
	s.Equal(money.MustFromMajor(75), s.getAccount(a).Balance)
	s.Equal(money.MustFromMajor(25), s.getAccount(b).Balance)
}
