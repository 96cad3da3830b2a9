package config

import (
	"context"
	"strconv"
	"strings"
)

// SettingsGetter is an interface for retrieving settings from storage
type SettingsGetter interface {
	GetSetting(ctx context.Context, key string) (string, error)
}

// Loader provides typed access to settings with default values
type Loader struct {
	db  SettingsGetter
	ctx context.Context
}

// NewLoader creates a new settings loader
func NewLoader(db SettingsGetter) *Loader {
	return &Loader{db: db, ctx: context.Background()}
}

// WithContext returns a loader whose reads are bound to ctx, so request
// cancellation reaches the settings query.
func (l *Loader) WithContext(ctx context.Context) *Loader {
	return &Loader{db: l.db, ctx: ctx}
}

// Int retrieves an integer setting, returning defaultVal if not found or invalid
func (l *Loader) Int(key string, defaultVal int) int {
	if val, _ := l.db.GetSetting(l.ctx, key); val != "" {
		if v, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return v
		}
	}
	return defaultVal
}

// Bool retrieves a boolean setting, returning defaultVal if not found
// Recognizes "true" as true, anything else (including "false") as false
func (l *Loader) Bool(key string, defaultVal bool) bool {
	if val, _ := l.db.GetSetting(l.ctx, key); val != "" {
		return val == "true"
	}
	return defaultVal
}

// String retrieves a string setting, returning defaultVal if not found or empty
func (l *Loader) String(key, defaultVal string) string {
	if val, _ := l.db.GetSetting(l.ctx, key); val != "" {
		return val
	}
	return defaultVal
}
