package customer_test

import (
	"testing"

	"github.com/amirasaad/minibank/webapi/common"
	"github.com/amirasaad/minibank/webapi/customer"
	"github.com/amirasaad/minibank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CustomerTestSuite struct {
	testutils.APITestSuite
}

func TestCustomerTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerTestSuite))
}

func (s *CustomerTestSuite) TestCreateAndGet() {
	resp := s.MakeRequest(fiber.MethodPost, "/api/v1/customers",
		`{"name":"Alex","email":"Alex@Example.com","dateOfBirth":"1990-01-15"}`)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var created customer.CustomerResponse
	s.Decode(resp, &created)
	s.NotEqual(uuid.Nil, created.Code)
	s.Equal("alex@example.com", created.Email)
	s.Equal("1990-01-15", created.DateOfBirth)
	s.GreaterOrEqual(created.Age, 35)

	resp = s.MakeRequest(fiber.MethodGet, "/api/v1/customers/"+created.Code.String(), "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var got customer.CustomerResponse
	s.Decode(resp, &got)
	s.Equal(created.Code, got.Code)

	resp = s.MakeRequest(fiber.MethodGet, "/api/v1/customers", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var list []customer.CustomerResponse
	s.Decode(resp, &list)
	s.Len(list, 1)
}

func (s *CustomerTestSuite) TestCreate_Rejections() {
	s.CreateCustomer("Alex", "alex@example.com")

	cases := []struct {
		name string
		body string
	}{
		{"email taken", `{"name":"Other","email":"ALEX@example.com","dateOfBirth":"1990-01-15"}`},
		{"underage", `{"name":"Kid","email":"kid@example.com","dateOfBirth":"2020-01-01"}`},
		{"bad email", `{"name":"Bad","email":"not-an-email","dateOfBirth":"1990-01-15"}`},
		{"bad date", `{"name":"Bad","email":"bad@example.com","dateOfBirth":"15/01/1990"}`},
		{"missing name", `{"email":"bad@example.com","dateOfBirth":"1990-01-15"}`},
		{"malformed", `{"name":`},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			resp := s.MakeRequest(fiber.MethodPost, "/api/v1/customers", tc.body)
			s.Equal(fiber.StatusBadRequest, resp.StatusCode)
			var body common.ErrorResponse
			s.Decode(resp, &body)
			s.Equal(fiber.StatusBadRequest, body.Status)
			s.NotEmpty(body.Message)
			s.False(body.Timestamp.IsZero())
		})
	}
}

func (s *CustomerTestSuite) TestGet_UnknownOrMalformedCode() {
	for _, code := range []string{uuid.NewString(), "not-a-uuid"} {
		resp := s.MakeRequest(fiber.MethodGet, "/api/v1/customers/"+code, "")
		s.Equal(fiber.StatusNotFound, resp.StatusCode)
		var body common.ErrorResponse
		s.Decode(resp, &body)
		s.Equal("customer not found", body.Message)
	}
}

func (s *CustomerTestSuite) TestUpdate() {
	code := s.CreateCustomer("Alex", "alex@example.com")
	s.CreateCustomer("Sam", "sam@example.com")

	resp := s.MakeRequest(fiber.MethodPut, "/api/v1/customers/"+code,
		`{"name":"Alexandra","email":"alex@example.com","dateOfBirth":"1991-02-20"}`)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var updated customer.CustomerResponse
	s.Decode(resp, &updated)
	s.Equal("Alexandra", updated.Name)
	s.Equal("1991-02-20", updated.DateOfBirth)

	resp = s.MakeRequest(fiber.MethodPut, "/api/v1/customers/"+code,
		`{"name":"Alexandra","email":"sam@example.com","dateOfBirth":"1991-02-20"}`)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodPut, "/api/v1/customers/"+uuid.NewString(),
		`{"name":"Ghost","email":"ghost@example.com","dateOfBirth":"1991-02-20"}`)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}
