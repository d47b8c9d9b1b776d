package webapi_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dkarpov/playerledger/app"
	"github.com/dkarpov/playerledger/pkg/config"
	"github.com/dkarpov/playerledger/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type APITestSuite struct {
	suite.Suite
	deps *app.Deps
	app  *fiber.App
}

func (s *APITestSuite) SetupTest() {
	cfg := &config.AppConfig{
		Env: "test",
		Jwt: config.JwtConfig{Secret: "test-secret", Expiry: time.Hour},
		RateLimit: config.RateLimitConfig{
			MaxRequests: 1000,
			Window:      time.Minute,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.deps = app.NewInMemory(cfg, logger)
	s.app = webapi.New(s.deps)
}

func (s *APITestSuite) makeRequest(method, target, body, token string) *http.Response {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

func (s *APITestSuite) decode(resp *http.Response, v any) {
	defer resp.Body.Close() //nolint: errcheck
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

// registerAndLogin creates a player and returns a bearer token plus the
// account id.
func (s *APITestSuite) registerAndLogin() (token string, accountID int64) {
	resp := s.makeRequest("POST", "/register",
		`{"username":"alice","email":"alice@example.com","password":"password123"}`, "")
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var reg struct {
		Data struct {
			AccountID int64 `json:"account_id"`
		} `json:"data"`
	}
	s.decode(resp, &reg)

	resp = s.makeRequest("POST", "/login",
		`{"username":"alice","password":"password123"}`, "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	s.decode(resp, &login)
	s.Require().NotEmpty(login.Data.Token)
	return login.Data.Token, reg.Data.AccountID
}

func (s *APITestSuite) accountPath(accountID int64, tail string) string {
	return "/account/" + strconv.FormatInt(accountID, 10) + "/" + tail
}

func (s *APITestSuite) TestRegisterValidation() {
	resp := s.makeRequest("POST", "/register", `{"username":"x"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.Equal("application/problem+json", resp.Header.Get("Content-Type"))
}

func (s *APITestSuite) TestRegisterUnsupportedCurrency() {
	resp := s.makeRequest("POST", "/register",
		`{"username":"bob","email":"bob@example.com","password":"password123","currency":"XXX"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *APITestSuite) TestLoginWrongPassword() {
	s.registerAndLogin()
	resp := s.makeRequest("POST", "/login", `{"username":"alice","password":"wrong-password"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func (s *APITestSuite) TestBalanceRequiresToken() {
	_, accountID := s.registerAndLogin()
	resp := s.makeRequest("GET", s.accountPath(accountID, "balance"), "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func (s *APITestSuite) TestCreditDebitBalanceFlow() {
	token, accountID := s.registerAndLogin()

	resp := s.makeRequest("POST", s.accountPath(accountID, "credit"),
		`{"id":1,"amount":"100.00"}`, token)
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	resp = s.makeRequest("POST", s.accountPath(accountID, "debit"),
		`{"id":2,"amount":"40.00"}`, token)
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	resp = s.makeRequest("GET", s.accountPath(accountID, "balance"), "", token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var balance struct {
		Data struct {
			Balance  string `json:"balance"`
			Currency string `json:"currency"`
		} `json:"data"`
	}
	s.decode(resp, &balance)
	s.Equal("60.00", balance.Data.Balance)
	s.Equal("USD", balance.Data.Currency)
}

func (s *APITestSuite) TestDebitOverdrawRejected() {
	token, accountID := s.registerAndLogin()

	resp := s.makeRequest("POST", s.accountPath(accountID, "credit"),
		`{"id":1,"amount":"10.00"}`, token)
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	resp = s.makeRequest("POST", s.accountPath(accountID, "debit"),
		`{"id":2,"amount":"1000.00"}`, token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *APITestSuite) TestDuplicateTransactionIDConflict() {
	token, accountID := s.registerAndLogin()

	resp := s.makeRequest("POST", s.accountPath(accountID, "credit"),
		`{"id":7,"amount":"10.00"}`, token)
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	resp = s.makeRequest("POST", s.accountPath(accountID, "credit"),
		`{"id":7,"amount":"10.00"}`, token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusConflict, resp.StatusCode)
}

func (s *APITestSuite) TestForeignAccountForbidden() {
	token, accountID := s.registerAndLogin()
	resp := s.makeRequest("GET", s.accountPath(accountID+1, "balance"), "", token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
}

func (s *APITestSuite) TestStatement() {
	token, accountID := s.registerAndLogin()

	resp := s.makeRequest("POST", s.accountPath(accountID, "credit"),
		`{"id":1,"amount":"100.00"}`, token)
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	from := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	to := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	resp = s.makeRequest("GET",
		s.accountPath(accountID, "statement")+"?from="+from+"&to="+to, "", token)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(body), "CREDIT")
	s.Contains(string(body), "100.00 USD")
}

func (s *APITestSuite) TestStatementBadPeriod() {
	token, accountID := s.registerAndLogin()
	resp := s.makeRequest("GET",
		s.accountPath(accountID, "statement")+"?from=not-a-date&to=also-not", "", token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *APITestSuite) TestListCurrencies() {
	resp := s.makeRequest("GET", "/currencies", "", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var out struct {
		Data []struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	s.decode(resp, &out)
	codes := make([]string, 0, len(out.Data))
	for _, c := range out.Data {
		codes = append(codes, c.Code)
	}
	s.Contains(codes, "USD")
	s.Contains(codes, "EUR")
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
