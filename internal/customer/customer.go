package customer

import (
	"regexp"
	"strings"

	"github.com/brickco/brickco-api/internal/domain/entity"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
)

// Input is the body of create and update requests. Nil fields are left
// unchanged on update.
type Input struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (in Input) applyTo(c *entity.Customer) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
}

// Detail is a customer together with every order placed under their id.
type Detail struct {
	entity.Customer
	Orders []entity.Order `json:"orders"`
}

func validateCustomer(c entity.Customer) []string {
	var errs []string
	if len(strings.TrimSpace(c.Name)) < 2 {
		errs = append(errs, "Name must be at least 2 characters long")
	}
	if !emailPattern.MatchString(c.Email) {
		errs = append(errs, "Valid email address is required")
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		errs = append(errs, "Phone number format is invalid")
	}
	return errs
}
