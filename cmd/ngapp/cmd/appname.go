package cmd

import (
	"regexp"
	"strings"

	"github.com/go-scaffold/ngapp/pkg/errors"
)

var validAppName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9._-]*$`)

// validateAppName checks that the app name can be used as the package name
// in package.json and bower.json and as the AngularJS module name.
func validateAppName(name string) error {
	if name == "" {
		return errors.Configf("appName", name, "must not be empty")
	}
	// These prefix checks are redundant with the regex below, but produce
	// more actionable error messages for common mistakes (hidden dirs, flags).
	if strings.HasPrefix(name, ".") {
		return errors.Configf("appName", name, "cannot start with a dot")
	}
	if strings.HasPrefix(name, "-") {
		return errors.Configf("appName", name, "cannot start with a hyphen")
	}
	if !validAppName.MatchString(name) {
		return errors.Configf("appName", name,
			"must start with a letter and contain only letters, numbers, dots, underscores, and hyphens")
	}
	return nil
}
