package logging

import "go.uber.org/zap"

// For returns the global sugared logger tagged with the component name
func For(component string) *zap.SugaredLogger {
	return zap.S().With("component", component)
}
