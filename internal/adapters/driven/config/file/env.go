package file

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/scholarstr/internal/logger"
)

// Environment variables that override config keys.
const (
	EnvRelayURLs = "SCHOLARSTR_RELAY_URLS"
	EnvSecretKey = "SCHOLARSTR_SECRET_KEY" //nolint:gosec // G101: variable name, not a credential.
	EnvHTTPAddr  = "SCHOLARSTR_HTTP_ADDR"
)

type envBinding struct {
	env  string
	key  string
	list bool
}

var envBindings = []envBinding{
	{env: EnvRelayURLs, key: "relay.urls", list: true},
	{env: EnvSecretKey, key: "signer.secret_key"},
	{env: EnvHTTPAddr, key: "http.addr"},
}

// envOverrides resolves the bound variables. A non-empty process variable
// wins over .env files; earlier files win over later ones.
func envOverrides(dotenvFiles ...string) map[string]any {
	fromFiles := make(map[string]string)
	for i := len(dotenvFiles) - 1; i >= 0; i-- {
		vals, err := godotenv.Read(dotenvFiles[i])
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("reading %s: %v", dotenvFiles[i], err)
			}
			continue
		}
		for k, v := range vals {
			fromFiles[k] = v
		}
	}

	out := make(map[string]any)
	for _, b := range envBindings {
		raw := strings.TrimSpace(os.Getenv(b.env))
		if raw == "" {
			raw = strings.TrimSpace(fromFiles[b.env])
		}
		if raw == "" {
			continue
		}
		if b.list {
			out[b.key] = splitList(raw)
		} else {
			out[b.key] = raw
		}
	}
	return out
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
