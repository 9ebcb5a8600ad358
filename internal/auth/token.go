package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/novem-code/novem-cli/internal/config"
)

// ResolveToken finds the token for the named profile.
func ResolveToken(profileName string, p *config.Profile) (string, error) {
	if token := strings.TrimSpace(os.Getenv(EnvVarName)); token != "" {
		return token, nil
	}

	source := ""
	if p != nil {
		source = strings.TrimSpace(p.TokenSource)
	}

	switch {
	case source == "" || source == "keyring":
		meta, err := GetTokenMetadata(profileName)
		if err != nil {
			return "", fmt.Errorf("no token for profile %q in %s or keyring: %w", profileName, EnvVarName, err)
		}
		return meta.Token, nil
	case strings.HasPrefix(source, "env:"):
		varName := strings.TrimPrefix(source, "env:")
		token := os.Getenv(varName)
		if token == "" {
			return "", fmt.Errorf("environment variable %s is not set", varName)
		}
		return token, nil
	default:
		return source, nil
	}
}
