package rbac

import (
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"hrms-backend/models"
)

type Provider interface {
	// GetRuleFunc returns the access check of a route, found is false for unregistered routes.
	GetRuleFunc(method, path string) (check models.RbacFunc, found bool)
	RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, check models.RbacFunc) error
	GetPermissions(role models.UserRole) map[models.Module][]models.Permission
}

var Instance Provider

func NewHandler() {
	Instance = newRegistry()
}

func newRegistry() *impl {
	i := &impl{
		rules:       map[HTTPMethod]*routeRules{},
		permissions: map[models.UserRole]map[models.Module][]models.Permission{},
	}
	i.initRules()
	return i
}

type impl struct {
	rules       map[HTTPMethod]*routeRules
	permissions map[models.UserRole]map[models.Module][]models.Permission
}

var paramRe = regexp.MustCompile(`\{[^}]+?\}`)

func (i *impl) GetRuleFunc(method, path string) (models.RbacFunc, bool) {
	rules, ok := i.rules[HTTPMethod(strings.ToUpper(method))]
	if !ok {
		return nil, false
	}
	path = normalizePath(path)
	if check, ok := rules.exact[path]; ok {
		return check, true
	}
	for _, rule := range rules.patterns {
		if rule.pattern.MatchString(path) {
			return rule.check, true
		}
	}
	return nil, false
}

func (i *impl) RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, check models.RbacFunc) error {
	path, method, err := parseSwaggerPattern(swaggerPattern)
	if err != nil {
		return err
	}

	for _, role := range roles {
		if _, ok := i.permissions[role]; !ok {
			i.permissions[role] = map[models.Module][]models.Permission{}
		}
		if !slices.Contains(i.permissions[role][module], permission) {
			i.permissions[role][module] = append(i.permissions[role][module], permission)
		}
	}

	if check == nil {
		check = AllowByRoleFunc(roles)
	}
	rules, ok := i.rules[method]
	if !ok {
		rules = &routeRules{exact: map[string]models.RbacFunc{}}
		i.rules[method] = rules
	}
	if !strings.Contains(path, "{") {
		rules.exact[path] = check
		return nil
	}
	pattern, err := pathToRegex(path)
	if err != nil {
		return errors.Wrapf(err, "bad route pattern %v", swaggerPattern)
	}
	rules.patterns = append(rules.patterns, patternRule{pattern: pattern, check: check})
	return nil
}

func (i *impl) mustRegister(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, check models.RbacFunc) {
	if err := i.RegisterRule(module, permission, roles, swaggerPattern, check); err != nil {
		panic(err.Error())
	}
}

func (i *impl) GetPermissions(role models.UserRole) map[models.Module][]models.Permission {
	result := map[models.Module][]models.Permission{}
	for module, list := range i.permissions[role] {
		result[module] = slices.Clone(list)
	}
	return result
}

func pathToRegex(path string) (*regexp.Regexp, error) {
	pattern := regexp.QuoteMeta(path)
	pattern = strings.ReplaceAll(pattern, `\{`, "{")
	pattern = strings.ReplaceAll(pattern, `\}`, "}")
	pattern = paramRe.ReplaceAllString(pattern, `([^/]+)`)
	return regexp.Compile("^" + pattern + "$")
}

func AllowFunc() models.RbacFunc {
	return func(userID string, role models.UserRole, path string) bool {
		return true
	}
}

func AllowByRoleFunc(accessRoles []models.UserRole) models.RbacFunc {
	allowMap := map[models.UserRole]bool{}
	for _, role := range accessRoles {
		allowMap[role] = true
	}
	return func(userID string, role models.UserRole, path string) bool {
		return allowMap[role]
	}
}

// SelfOrAdminFunc allows admins and the user whose id is the path segment following prefix,
// for example prefix "/api/v1/users/" and path "/api/v1/users/42/avatar".
func SelfOrAdminFunc(prefix string) models.RbacFunc {
	return func(userID string, role models.UserRole, path string) bool {
		if role.IsAdmin() {
			return true
		}
		rest, ok := strings.CutPrefix(normalizePath(path), prefix)
		if !ok {
			return false
		}
		id, _, _ := strings.Cut(rest, "/")
		return id != "" && id == userID
	}
}

// parseSwaggerPattern parses "/api/v1/users [post]".
func parseSwaggerPattern(pattern string) (path string, method HTTPMethod, err error) {
	pattern = strings.TrimSpace(pattern)
	bracketStart := strings.LastIndex(pattern, "[")
	bracketEnd := strings.LastIndex(pattern, "]")
	if bracketStart == -1 || bracketEnd <= bracketStart {
		return "", "", errors.Errorf("method not provided for pattern (%v)", pattern)
	}
	path = normalizePath(strings.TrimSpace(pattern[:bracketStart]))
	method = HTTPMethod(strings.ToUpper(strings.TrimSpace(pattern[bracketStart+1 : bracketEnd])))
	return path, method, nil
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
