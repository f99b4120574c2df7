package descriptor

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// typeExpression composes the type segment: base type, size suffix, then the
// allowed-values suffix. Suffix order is fixed.
func typeExpression(base string, min, max *float64, allowed []any) string {
	expr := base + sizeSuffix(min, max)
	if len(allowed) > 0 {
		expr += `="` + joinLiterals(allowed) + `"`
	}
	return expr
}

// sizeSuffix renders {min..max}, omitting an absent side but keeping the
// braces whenever at least one bound is present. A zero bound counts as
// absent.
func sizeSuffix(min, max *float64) string {
	minSet := min != nil && *min != 0
	maxSet := max != nil && *max != 0
	if !minSet && !maxSet {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("{")
	if minSet {
		sb.WriteString(formatNumber(*min))
	}
	sb.WriteString("..")
	if maxSet {
		sb.WriteString(formatNumber(*max))
	}
	sb.WriteString("}")
	return sb.String()
}

// refineType appends the "/ format-or-pattern" segment, format winning when
// both are present.
func refineType(base, format, pattern string) string {
	switch {
	case format != "":
		return base + " / " + format
	case pattern != "":
		return base + " / " + pattern
	default:
		return base
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// literalString renders one allowed value: strings bare, numbers in shortest
// decimal form, booleans and null by name, anything else as JSON.
func literalString(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(v)
	case float32:
		return formatNumber(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func joinLiterals(values []any) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, literalString(value))
	}
	return strings.Join(parts, ",")
}

// jsonLiteral renders a default as its JSON literal, strings keeping their
// quotes.
func jsonLiteral(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(raw)
}
