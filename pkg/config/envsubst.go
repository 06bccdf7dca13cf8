package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/lookatitude/irene/pkg/ireneerrors"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv substitutes ${VAR} references in raw with values from the
// environment. A missing variable is a fatal CodeConfig error rather
// than an empty-string substitution.
func ExpandEnv(raw string) (string, error) {
	var firstErr error
	result := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		if firstErr != nil {
			return match
		}
		name := envVarPattern.FindStringSubmatch(match)[1]
		val, ok := os.LookupEnv(name)
		if !ok {
			firstErr = ireneerrors.New("config.ExpandEnv", ireneerrors.CodeConfig,
				fmt.Sprintf("unresolved environment variable %q", name), nil)
			return match
		}
		return val
	})
	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}
