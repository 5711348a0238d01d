// Package audit provides a structured audit logger for CLI command invocations.
// It logs the command name, binary version, config source and sanitised
// environment state so operators can trace what ran without exposing secrets.
//
// Secrets are logged as presence/absence only — never their values.
package audit

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/54b3r/netatmo-cli/internal/config"
	"github.com/54b3r/netatmo-cli/internal/version"
)

// secretSuffixes marks environment variable names whose values must never be
// logged. Only presence ("set") or absence ("unset") is recorded.
var secretSuffixes = []string{
	"_PASSWORD",
	"_SECRET",
	"_TOKEN",
	"_API_KEY",
}

// auditKeys is the ordered list of env vars included in every audit log entry.
var auditKeys = []string{
	config.EnvConfig,
	config.EnvStateDB,
	config.EnvRequiredVersion,
	config.EnvLogLevel,
	config.EnvLogFormat,
}

// LogCommandStart emits a structured audit log entry when a CLI command begins.
func LogCommandStart(log *slog.Logger, command string, configPath string) {
	info := version.Get()
	attrs := []slog.Attr{
		slog.String("command", command),
		slog.String("config_file", sanitiseConfigPath(configPath)),
		slog.String("commit", info.Commit),
		slog.String("build_date", info.BuildDate),
	}

	for _, key := range auditKeys {
		attrs = append(attrs, slog.String(key, SanitiseKey(key, os.Getenv(key))))
	}

	log.LogAttrs(context.TODO(), slog.LevelInfo, "audit: command start", attrs...)
}

// SanitiseKey returns "set" or "unset" for secret-looking keys, or the actual
// value for everything else. This is safe to use in log messages.
func SanitiseKey(key, value string) string {
	if isSecret(key) {
		return presence(value)
	}
	return valOrUnset(value)
}

func isSecret(key string) bool {
	upper := strings.ToUpper(key)
	for _, s := range secretSuffixes {
		if strings.HasSuffix(upper, s) {
			return true
		}
	}
	return false
}

// presence returns "set" if the value is non-empty, "unset" otherwise.
func presence(v string) string {
	if v != "" {
		return "set"
	}
	return "unset"
}

// valOrUnset returns the value if non-empty, "unset" otherwise.
func valOrUnset(v string) string {
	if v != "" {
		return v
	}
	return "unset"
}

// sanitiseConfigPath returns the config path or "none" if empty.
func sanitiseConfigPath(p string) string {
	if p == "" {
		return "none"
	}
	// Redact home directory for privacy in logs.
	home, err := os.UserHomeDir()
	if err == nil && home != "" && (p == home || strings.HasPrefix(p, home+string(filepath.Separator))) {
		return "~" + p[len(home):]
	}
	return p
}
