package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// sanitizeChoices pairs each policy with its wizard label.
var sanitizeChoices = []struct {
	Policy SanitizePolicy
	Label  string
}{
	{SanitizeTrusted, "trusted - fragments are sanitized by the authoring system"},
	{SanitizeUGC, "ugc     - keep formatting and links, strip scripts and handlers"},
	{SanitizeStrict, "strict  - strip all markup, keep text"},
}

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to slidegallery! Let's configure the widget.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Origin serving the index and fragments.
	originPrompt := promptui.Prompt{
		Label:    "Content origin (serves the slide index and fragments)",
		Default:  cfg.Origin,
		Validate: validateAbsoluteURL,
	}
	origin, err := originPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	cfg.Origin = strings.TrimRight(strings.TrimSpace(origin), "/")

	// 2. Base URL prefixed to the index path.
	basePrompt := promptui.Prompt{
		Label:   "Base URL for the index (blank for the origin root)",
		Default: cfg.BaseURL,
	}
	baseURL, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	// 3. Listen port.
	portPrompt := promptui.Prompt{
		Label:    "Port for slidegallery serve",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 4. Sanitize policy.
	labels := make([]string, len(sanitizeChoices))
	for i, c := range sanitizeChoices {
		labels[i] = c.Label
	}
	sanitizePrompt := promptui.Select{
		Label: "How should fragment markup be treated?",
		Items: labels,
	}
	idx, _, err := sanitizePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("sanitize selection: %w", err)
	}
	cfg.Sanitize = sanitizeChoices[idx].Policy

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	fmt.Printf("Index reference: %s (relative to %s)\n", cfg.IndexRef(), cfg.Origin)
	return cfg, nil
}

func validateAbsoluteURL(s string) error {
	if !isAbsoluteURL(strings.TrimSpace(s)) {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return errors.New("must be a number between 1 and 65535")
	}
	return nil
}
