package custom_errors

import (
	"errors"
	"fmt"
)

type ValidationError struct {
	Errors []error `json:"errors"`
}

func (c *ValidationError) Add(err error) {
	c.Errors = append(c.Errors, err)
}

func (c *ValidationError) HasError() bool {
	return len(c.Errors) > 0
}

func (c *ValidationError) Error() string {
	if len(c.Errors) == 0 {
		return ""
	}
	return fmt.Sprintf("%v", errors.Join(c.Errors...))
}

// Messages returns each aggregated error as a plain string, for JSON responses.
func (c *ValidationError) Messages() []string {
	messages := make([]string, 0, len(c.Errors))
	for _, err := range c.Errors {
		messages = append(messages, err.Error())
	}
	return messages
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As.
func (c *ValidationError) Unwrap() []error {
	return c.Errors
}
