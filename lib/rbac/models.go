package rbac

import (
	"regexp"

	"hrms-backend/models"
)

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
)

// routeRules holds the rules of one HTTP method, exact paths are checked before patterns.
type routeRules struct {
	exact    map[string]models.RbacFunc
	patterns []patternRule
}

type patternRule struct {
	pattern *regexp.Regexp
	check   models.RbacFunc
}
