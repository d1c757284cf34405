// Package destination holds the notification targets actions send
// their messages to, together with the validation applied before a
// destination is accepted.
package destination

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	KindEmail   = "email"
	KindSlack   = "slack"
	KindWebhook = "custom_webhook"
)

// emailPattern is the full-match pattern an address has to satisfy.
// Matching is case-insensitive.
var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9!#$%&'*+\-/=?^_` + "`" + `{|}~]+(?:\.[A-Z0-9!#$%&'*+\-/=?^_` + "`" + `{|}~]+)*@(?:[A-Z0-9](?:[A-Z0-9-]*[A-Z0-9])?\.)+[A-Z0-9](?:[A-Z0-9-]*[A-Z0-9])?$`)

// IsValidEmail returns whether the address fully matches the accepted
// email address pattern.
func IsValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}

var validate = validator.New()

// Destination is a notification target.
type Destination struct {
	ID         string   `json:"id"`
	Name       string   `json:"name" validate:"required"`
	Kind       string   `json:"type" validate:"required,oneof=email slack custom_webhook"`
	Host       string   `json:"host,omitempty"`
	Port       int      `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Recipients []string `json:"recipients,omitempty"`
}

// Validate checks the constraints on the destination fields. For email
// destinations every recipient has to be a valid address.
func (d *Destination) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid destination: %w", err)
	}

	if d.Kind == KindEmail {
		for _, recipient := range d.Recipients {
			if !IsValidEmail(recipient) {
				return fmt.Errorf("invalid email address '%s'", recipient)
			}
		}
	}

	return nil
}
