package store

import (
	"fmt"
	"regexp"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// ValidateName reports whether name can be used as a vault name by every
// backend. A leading dot is reserved for temporary files.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) || name[0] == '.' {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
