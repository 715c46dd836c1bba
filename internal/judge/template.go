package judge

import (
	"regexp"
	"strings"
)

// TemplateParams are the values substituted into a judge prompt template.
// Absent fields render as empty strings.
type TemplateParams struct {
	Criteria string
	Expected string
	Actual   string
}

var placeholderRegex = regexp.MustCompile(`\{\{(\w+)\}\}`)

// RenderTemplate substitutes {{criteria}}, {{expected}} and {{actual}} in a
// template. Unknown placeholders are left verbatim so custom templates can
// carry extra tokens consumed elsewhere.
func RenderTemplate(template string, params TemplateParams) string {
	values := map[string]string{
		"criteria": params.Criteria,
		"expected": params.Expected,
		"actual":   params.Actual,
	}

	return placeholderRegex.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.ToLower(match[2 : len(match)-2])
		if val, ok := values[key]; ok {
			return val
		}
		return match
	})
}

// RequiredParams lists the distinct placeholder names a template references.
func RequiredParams(template string) []string {
	seen := make(map[string]bool)
	var params []string

	matches := placeholderRegex.FindAllStringSubmatch(template, -1)
	for _, m := range matches {
		if len(m) > 1 && !seen[m[1]] {
			seen[m[1]] = true
			params = append(params, m[1])
		}
	}

	return params
}
