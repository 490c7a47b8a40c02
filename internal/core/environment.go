package core

import "strings"

// Environment represents the deployment environment of the service.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment corresponds to production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// Decode lets envconfig populate an Environment directly from ENVIRONMENT.
func (e *Environment) Decode(value string) error {
	*e = ParseEnvironment(value)
	return nil
}

// ParseEnvironment normalises v into one of the known environments.
// Unknown values fall back to Development.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production, "prod":
		return Production
	case Staging:
		return Staging
	case Testing, "test":
		return Testing
	default:
		return Development
	}
}
