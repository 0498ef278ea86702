package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"golang.org/x/net/http/httpguts"

	"github.com/atlanticdynamic/lynxeval/internal/fancy"
)

// Headers lists the header operations applied to every response.
type Headers struct {
	// Set replaces existing values.
	Set map[string]string `toml:"set"    env_interpolation:"yes"`
	// Add appends to existing values.
	Add map[string]string `toml:"add"    env_interpolation:"yes"`
	// Remove drops headers by name.
	Remove []string `toml:"remove" env_interpolation:"yes"`
}

// IsEmpty reports whether no header operation is configured.
func (h *Headers) IsEmpty() bool {
	return len(h.Set) == 0 && len(h.Add) == 0 && len(h.Remove) == 0
}

// Validate validates the headers configuration
func (h *Headers) Validate() error {
	var errs []error

	for _, key := range sortedKeys(h.Set) {
		if err := validateHeader(key, h.Set[key]); err != nil {
			errs = append(errs, fmt.Errorf("set header '%s': %w", key, err))
		}
	}

	for _, key := range sortedKeys(h.Add) {
		if err := validateHeader(key, h.Add[key]); err != nil {
			errs = append(errs, fmt.Errorf("add header '%s': %w", key, err))
		}
	}

	for _, key := range h.Remove {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, fmt.Errorf("%w: remove header name cannot be empty", ErrInvalidHeader))
			continue
		}
		if !httpguts.ValidHeaderFieldName(key) {
			errs = append(errs, fmt.Errorf("%w: invalid header name: %s", ErrInvalidHeader, key))
		}
	}

	return errors.Join(errs...)
}

// HTTPHeaders converts a header map into canonical http.Header form.
func HTTPHeaders(m map[string]string) http.Header {
	if len(m) == 0 {
		return nil
	}
	out := make(http.Header, len(m))
	for k, v := range m {
		out.Set(k, v)
	}
	return out
}

// ToTree returns a tree representation of the headers configuration
func (h *Headers) ToTree() *tree.Tree {
	t := fancy.BranchNode("Headers", fmt.Sprintf("(%d)", len(h.Set)+len(h.Add)+len(h.Remove)))

	if h.IsEmpty() {
		t.Child(fancy.InfoStyle.Render("none"))
		return t
	}
	for _, key := range sortedKeys(h.Set) {
		t.Child(fancy.HeaderRuleText("set ") + fmt.Sprintf("%s: %s", key, h.Set[key]))
	}
	for _, key := range sortedKeys(h.Add) {
		t.Child(fancy.HeaderRuleText("add ") + fmt.Sprintf("%s: %s", key, h.Add[key]))
	}
	for _, key := range h.Remove {
		t.Child(fancy.HeaderRuleText("remove ") + key)
	}
	return t
}

// validateHeader validates a header key-value pair using httpguts
func validateHeader(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: header name cannot be empty", ErrInvalidHeader)
	}
	if !httpguts.ValidHeaderFieldName(key) {
		return fmt.Errorf("%w: invalid header name: %s", ErrInvalidHeader, key)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("%w: invalid header value for %s", ErrInvalidHeader, key)
	}
	return nil
}
