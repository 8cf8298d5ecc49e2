package validators

import (
	"rentalChat/internal/errs"
	"rentalChat/internal/models"
	"strings"
)

func ValidateMessage(message *models.Message) []error {
	var errors []error
	if message == nil {
		errors = append(errors, errs.ErrInvalidRequest)
		return errors
	}

	if message.SenderID == 0 || message.ReceiverID == 0 {
		errors = append(errors, errs.ErrMissingFields)
	}

	if strings.TrimSpace(message.Body) == "" {
		errors = append(errors, errs.ErrEmptyMessage)
	}

	if message.RentalID != nil && *message.RentalID == 0 {
		errors = append(errors, errs.ErrInvalidParams)
	}

	if message.ParentID != nil && *message.ParentID == 0 {
		errors = append(errors, errs.ErrInvalidParams)
	}
	return errors
}

func ValidateLogin(login *models.LoginRequestBody) []error {
	var errors []error
	if login == nil || strings.TrimSpace(login.Identifier) == "" || login.Password == "" {
		errors = append(errors, errs.ErrMissingFields)
	}
	return errors
}

// IsEmailIdentifier decides whether a login identifier is an email or a
// phone number.
func IsEmailIdentifier(identifier string) bool {
	return strings.Contains(identifier, "@")
}
