package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cristianoliveira/repokit/internal/colors"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validate normalizes cfg, falling back to defaults for invalid values.
func validate(cfg, defaults *Config) {
	cfg.LoggingLevel = enumValue("logging_level", cfg.LoggingLevel, defaults.LoggingLevel, validLogLevels)
	cfg.LoggingMaxFiles = positiveInt("logging_max_files", cfg.LoggingMaxFiles, defaults.LoggingMaxFiles)
	cfg.DocsTool = nonEmpty("docs_tool", cfg.DocsTool, defaults.DocsTool)
	cfg.DocsConfig = nonEmpty("docs_config", cfg.DocsConfig, defaults.DocsConfig)
	cfg.DistDir = nonEmpty("dist_dir", cfg.DistDir, defaults.DistDir)
}

func enumValue(key, value, defaultValue string, allowed map[string]bool) string {
	if value == "" {
		return defaultValue
	}
	lower := strings.ToLower(value)
	if lower == "warning" {
		lower = "warn"
	}
	if !allowed[lower] {
		colors.Warning(fmt.Sprintf("invalid %s value '%s': must be one of: %s; using default: %s", key, value, allowedValues(allowed), defaultValue))
		return defaultValue
	}
	return lower
}

func positiveInt(key string, value, defaultValue int) int {
	if value <= 0 {
		colors.Warning(fmt.Sprintf("invalid %s value '%d': must be a positive integer, using default: %d", key, value, defaultValue))
		return defaultValue
	}
	return value
}

func nonEmpty(key, value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		colors.Warning(fmt.Sprintf("empty %s, using default: %s", key, defaultValue))
		return defaultValue
	}
	return value
}

func allowedValues(allowed map[string]bool) string {
	values := make([]string, 0, len(allowed))
	for k := range allowed {
		values = append(values, k)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
