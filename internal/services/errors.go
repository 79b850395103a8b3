package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIdentifierNotFound = errors.New("no identifier found")
	ErrURLParse           = errors.New("url parse failure")
	ErrSerialization      = errors.New("serialization failure")
	ErrStorage            = errors.New("storage failure")
	ErrRemoteFetch        = errors.New("remote fetch failure")
	ErrInvalidState       = errors.New("invalid internal state")
)

// kinds lists the markers in the order Kind checks them. A wrapped chain that
// carries several markers reports the first one listed here.
var kinds = []struct {
	marker error
	name   string
}{
	{ErrIdentifierNotFound, "identifier_not_found"},
	{ErrURLParse, "url_parse_failure"},
	{ErrSerialization, "serialization_failure"},
	{ErrStorage, "storage_failure"},
	{ErrRemoteFetch, "remote_fetch_failure"},
	{ErrInvalidState, "invalid_internal_state"},
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInvalidState
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to the stable snake_case name of its marker. Errors
// without a known marker report "unknown"; nil reports "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.name
		}
	}
	return "unknown"
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
