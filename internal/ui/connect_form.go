package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
)

// ConnectResult holds the values entered on the connect form.
type ConnectResult struct {
	BackendURL   string
	PollInterval string
}

// ConnectForm asks for the backend to review against on first run.
type ConnectForm struct {
	form   *huh.Form
	result *ConnectResult
}

// NewConnectForm creates the connect form prefilled with the given defaults.
func NewConnectForm(backendURL string, interval time.Duration) *ConnectForm {
	result := &ConnectResult{
		BackendURL:   backendURL,
		PollInterval: interval.String(),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Relevance Review").
				Description("No configuration found. Where is the review backend?"),

			huh.NewInput().
				Title("Backend URL").
				Placeholder("http://localhost:8080").
				Validate(ValidateBackendURL).
				Value(&result.BackendURL),

			huh.NewInput().
				Title("Poll interval").
				Placeholder("1s").
				Validate(validateInterval).
				Value(&result.PollInterval),
		),
	)

	return &ConnectForm{
		form:   form,
		result: result,
	}
}

// Run executes the form and returns the result
func (cf *ConnectForm) Run() (*ConnectResult, error) {
	if err := cf.form.Run(); err != nil {
		return nil, err
	}
	return cf.result, nil
}

// Interval parses the entered poll interval.
func (r *ConnectResult) Interval() (time.Duration, error) {
	return time.ParseDuration(strings.TrimSpace(r.PollInterval))
}

// ValidateBackendURL rejects anything that is not an http(s) URL.
func ValidateBackendURL(s string) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("must start with http:// or https://")
	}
	return nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a duration, try 1s or 500ms")
	}
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
