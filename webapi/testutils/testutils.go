// Package testutils builds an in-memory minibank API for handler tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/amirasaad/minibank/infra/cache"
	infra_eventbus "github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/infra/repository/memory"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/amirasaad/minibank/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/stretchr/testify/suite"
)

// TestConfig returns the configuration used by the API suites.
func TestConfig() *config.App {
	return &config.App{
		Env:         "test",
		Store:       &config.Store{Timeout: 2 * time.Second, MaxRetries: 1, RetryBaseDelay: time.Millisecond, RetryMaxDelay: time.Millisecond},
		Ledger:      &config.Ledger{MinAmount: money.MustFromMajor(1), MaxAmount: money.MustFromMajor(100000)},
		Customer:    &config.Customer{MinAge: 18},
		Idempotency: &config.Idempotency{TTL: time.Hour, LockTTL: 5 * time.Second},
		RateLimit:   &config.RateLimit{},
	}
}

// APITestSuite serves the API over a fresh in-memory store for every test.
type APITestSuite struct {
	suite.Suite
	App      *fiber.App
	Minibank *app.App
	Bus      *infra_eventbus.MemoryEventBus
	Cfg      *config.App
}

func (s *APITestSuite) SetupTest() {
	log.SetOutput(io.Discard)
	if s.Cfg == nil {
		s.Cfg = TestConfig()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Bus = infra_eventbus.NewWithMemory(logger)
	s.Minibank = app.New(&app.Deps{
		Uow:              memory.New(),
		EventBus:         s.Bus,
		IdempotencyStore: cache.NewMemoryIdempotencyStore(),
		Logger:           logger,
	}, s.Cfg)
	s.App = webapi.SetupApp(s.Minibank)
}

// MakeRequest sends body as JSON. headers are name, value pairs.
func (s *APITestSuite) MakeRequest(method, path, body string, headers ...string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.App.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// Decode reads the JSON body of resp into out and closes it.
func (s *APITestSuite) Decode(resp *http.Response, out any) {
	defer resp.Body.Close() //nolint:errcheck
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

// CreateCustomer registers a customer born in 1990 and returns its code.
func (s *APITestSuite) CreateCustomer(name, email string) string {
	resp := s.MakeRequest(fiber.MethodPost, "/api/v1/customers",
		`{"name":"`+name+`","email":"`+email+`","dateOfBirth":"1990-01-15"}`)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var out struct {
		Code string `json:"code"`
	}
	s.Decode(resp, &out)
	return out.Code
}

// OpenAccount opens the account of customerCode and returns its code.
func (s *APITestSuite) OpenAccount(customerCode string) string {
	resp := s.MakeRequest(fiber.MethodPost, "/api/v1/customers/"+customerCode+"/account", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var out struct {
		Code string `json:"code"`
	}
	s.Decode(resp, &out)
	return out.Code
}

// FundedAccount registers a customer, opens its account and deposits amount.
func (s *APITestSuite) FundedAccount(email, amount string) string {
	code := s.OpenAccount(s.CreateCustomer("Test", email))
	if amount != "" {
		resp := s.MakeRequest(fiber.MethodPut, "/api/v1/accounts/"+code+"/deposit", `{"amount":`+amount+`}`)
		s.Require().Equal(fiber.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	}
	return code
}
