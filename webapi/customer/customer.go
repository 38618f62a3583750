package customer

import (
	"errors"
	"time"

	customerdom "github.com/amirasaad/minibank/pkg/domain/customer"
	customersvc "github.com/amirasaad/minibank/pkg/service/customer"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers HTTP routes for customer operations.
//
// Routes:
//   - GET    /customers         : List all customers.
//   - GET    /customers/:code   : Get one customer.
//   - POST   /customers         : Register a customer.
//   - PUT    /customers/:code   : Replace a customer's profile.
func Routes(router fiber.Router, svc *customersvc.Service) {
	router.Get("/customers", ListCustomers(svc))
	router.Get("/customers/:code", GetCustomer(svc))
	router.Post("/customers", CreateCustomer(svc))
	router.Put("/customers/:code", UpdateCustomer(svc))
}

// ListCustomers returns a Fiber handler listing customers in registration order.
// @Summary List customers
// @Tags customers
// @Produce json
// @Success 200 {array} CustomerResponse
// @Failure 503 {object} common.ErrorResponse "Store unavailable"
// @Router /customers [get]
func ListCustomers(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cs, err := svc.ListCustomers(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(toCustomerResponses(cs, time.Now()))
	}
}

// GetCustomer returns a Fiber handler fetching one customer by code.
// @Summary Get a customer
// @Tags customers
// @Produce json
// @Param code path string true "Customer code"
// @Success 200 {object} CustomerResponse
// @Failure 404 {object} common.ErrorResponse "Customer not found"
// @Router /customers/{code} [get]
func GetCustomer(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := common.ParseCode(c, customerdom.ErrCustomerNotFound)
		if err != nil {
			return err
		}
		cust, err := svc.GetCustomer(c.UserContext(), code)
		if err != nil {
			return err
		}
		return c.JSON(ToCustomerResponse(cust, time.Now()))
	}
}

// CreateCustomer returns a Fiber handler registering a customer.
// The email must be unused and the customer must be of age.
// @Summary Register a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param request body CustomerRequest true "Customer profile"
// @Success 200 {object} CustomerResponse
// @Failure 400 {object} common.ErrorResponse "Invalid profile, email taken or underage"
// @Router /customers [post]
func CreateCustomer(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CustomerRequest](c)
		if err != nil {
			return err
		}
		cust, err := svc.CreateCustomer(c.UserContext(), input.toProfile())
		if err != nil {
			return emailTakenAsBadRequest(err)
		}
		log.Infof("Customer registered: %s", cust.Code)
		return c.JSON(ToCustomerResponse(cust, time.Now()))
	}
}

// UpdateCustomer returns a Fiber handler replacing a customer's profile.
// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param code path string true "Customer code"
// @Param request body CustomerRequest true "Customer profile"
// @Success 200 {object} CustomerResponse
// @Failure 400 {object} common.ErrorResponse "Invalid profile, email taken or underage"
// @Failure 404 {object} common.ErrorResponse "Customer not found"
// @Router /customers/{code} [put]
func UpdateCustomer(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := common.ParseCode(c, customerdom.ErrCustomerNotFound)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[CustomerRequest](c)
		if err != nil {
			return err
		}
		cust, err := svc.UpdateCustomer(c.UserContext(), code, input.toProfile())
		if err != nil {
			return emailTakenAsBadRequest(err)
		}
		return c.JSON(ToCustomerResponse(cust, time.Now()))
	}
}

// emailTakenAsBadRequest reports a taken email as a client input error.
func emailTakenAsBadRequest(err error) error {
	if errors.Is(err, customerdom.ErrEmailTaken) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}
