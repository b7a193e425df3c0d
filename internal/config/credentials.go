package config

import (
	"os"
	"strings"

	"github.com/amishk599/reqwiz/internal/model"
)

// ResolveAPIKey is the single credential lookup used by every remote
// component. It checks, in order, the explicit value from the config file and
// then the environment variable envVar. The first non-blank value wins; if
// none is found it returns *model.AuthenticationError listing what was checked.
func ResolveAPIKey(backend, explicit, envVar string) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}
	lookup := []string{"config api_key"}
	if envVar != "" {
		lookup = append(lookup, "$"+envVar)
		if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
			return key, nil
		}
	}
	return "", &model.AuthenticationError{Backend: backend, Lookup: lookup}
}
