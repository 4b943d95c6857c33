package config

import "context"

// ContextKey is an alias used for storing values in context
type ContextKey string

const (
	// ConfigCtxKey is the context key used to store the *Config instance
	ConfigCtxKey ContextKey = "config"
	// ServiceCtxKey is the context key used to store the Service that loaded it
	ServiceCtxKey ContextKey = "config_service"
)

// ContextWithConfig stores the configuration in the context
func ContextWithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ConfigCtxKey, cfg)
}

// FromContext returns the configuration stored in ctx, or the defaults when
// none was attached.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(ConfigCtxKey).(*Config); ok && cfg != nil {
			return cfg
		}
	}
	return Default()
}

// ContextWithService stores the service that produced the configuration.
func ContextWithService(ctx context.Context, service Service) context.Context {
	return context.WithValue(ctx, ServiceCtxKey, service)
}

// ServiceFromContext returns the stored service or nil.
func ServiceFromContext(ctx context.Context) Service {
	if ctx == nil {
		return nil
	}
	service, ok := ctx.Value(ServiceCtxKey).(Service)
	if !ok {
		return nil
	}
	return service
}
