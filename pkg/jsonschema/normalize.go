package jsonschema

import (
	"fmt"
	"math"
	"strings"

	"github.com/goliatone/go-schemadoc/pkg/schema"
)

// schemaFromRaw converts a resolved payload into the canonical schema tree.
// Keywords outside the descriptor vocabulary are ignored rather than rejected;
// real-world schemas carry plenty of them. Malformed values for keywords the
// walker does consume are still errors.
func schemaFromRaw(node any, path string) (schema.Schema, error) {
	if node == nil {
		return schema.Schema{}, fmt.Errorf("jsonschema: schema is nil at %s", path)
	}
	payload, ok := node.(*RawObject)
	if !ok {
		return schema.Schema{}, fmt.Errorf("jsonschema: schema must be an object at %s", path)
	}

	if ref := strings.TrimSpace(readString(payload, "$ref")); ref != "" {
		return schema.Schema{}, fmt.Errorf("jsonschema: unresolved $ref %q at %s", ref, path)
	}

	out := schema.Schema{
		Type:        strings.TrimSpace(readString(payload, "type")),
		Title:       strings.TrimSpace(readString(payload, "title")),
		Description: strings.TrimSpace(readString(payload, "description")),
		Format:      strings.TrimSpace(readString(payload, "format")),
		Extensions:  extractExtensions(payload),
	}

	if raw, ok := payload.Get("default"); ok && raw != nil {
		out.Default = raw
	}

	if enumRaw, ok := payload.Get("enum"); ok {
		enumList, ok := enumRaw.([]any)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: enum must be an array at %s", path)
		}
		out.Enum = append([]any(nil), enumList...)
	}

	if requiredRaw, ok := payload.Get("required"); ok {
		list, ok := requiredRaw.([]any)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: required must be an array at %s", path)
		}
		required := make([]string, 0, len(list))
		for idx, item := range list {
			str, ok := item.(string)
			if !ok || strings.TrimSpace(str) == "" {
				return schema.Schema{}, fmt.Errorf("jsonschema: required[%d] must be a string at %s", idx, path)
			}
			required = append(required, str)
		}
		out.Required = required
	}

	if minRaw, ok := payload.Get("minimum"); ok {
		value, ok := toFloat(minRaw)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: minimum must be a number at %s", path)
		}
		out.Minimum = &value
	}

	if maxRaw, ok := payload.Get("maximum"); ok {
		value, ok := toFloat(maxRaw)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: maximum must be a number at %s", path)
		}
		out.Maximum = &value
	}

	if exclusiveMinRaw, ok := payload.Get("exclusiveMinimum"); ok {
		switch value := exclusiveMinRaw.(type) {
		case bool:
			out.ExclusiveMinimum = value
		default:
			number, ok := toFloat(exclusiveMinRaw)
			if !ok {
				return schema.Schema{}, fmt.Errorf("jsonschema: exclusiveMinimum must be a number at %s", path)
			}
			if out.Minimum != nil {
				return schema.Schema{}, fmt.Errorf("jsonschema: minimum conflicts with exclusiveMinimum at %s", path)
			}
			out.Minimum = &number
			out.ExclusiveMinimum = true
		}
	}

	if exclusiveMaxRaw, ok := payload.Get("exclusiveMaximum"); ok {
		switch value := exclusiveMaxRaw.(type) {
		case bool:
			out.ExclusiveMaximum = value
		default:
			number, ok := toFloat(exclusiveMaxRaw)
			if !ok {
				return schema.Schema{}, fmt.Errorf("jsonschema: exclusiveMaximum must be a number at %s", path)
			}
			if out.Maximum != nil {
				return schema.Schema{}, fmt.Errorf("jsonschema: maximum conflicts with exclusiveMaximum at %s", path)
			}
			out.Maximum = &number
			out.ExclusiveMaximum = true
		}
	}

	if minLenRaw, ok := payload.Get("minLength"); ok {
		value, ok := toInt(minLenRaw)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: minLength must be an integer at %s", path)
		}
		out.MinLength = &value
	}

	if maxLenRaw, ok := payload.Get("maxLength"); ok {
		value, ok := toInt(maxLenRaw)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: maxLength must be an integer at %s", path)
		}
		out.MaxLength = &value
	}

	if minItemsRaw, ok := payload.Get("minItems"); ok {
		value, ok := toInt(minItemsRaw)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: minItems must be an integer at %s", path)
		}
		out.MinItems = &value
	}

	if maxItemsRaw, ok := payload.Get("maxItems"); ok {
		value, ok := toInt(maxItemsRaw)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: maxItems must be an integer at %s", path)
		}
		out.MaxItems = &value
	}

	if patternRaw, ok := payload.Get("pattern"); ok {
		pattern, ok := patternRaw.(string)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: pattern must be a string at %s", path)
		}
		out.Pattern = pattern
	}

	for _, defsKey := range []string{"$defs", "definitions"} {
		defsRaw, ok := payload.Get(defsKey)
		if !ok {
			continue
		}
		defs, ok := defsRaw.(*RawObject)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: %s must be an object at %s", defsKey, path)
		}
		for pair := defs.Oldest(); pair != nil; pair = pair.Next() {
			childPath := joinPath(path, defsKey, pair.Key)
			if _, err := schemaFromRaw(pair.Value, childPath); err != nil {
				return schema.Schema{}, err
			}
		}
	}

	if propertiesRaw, ok := payload.Get("properties"); ok {
		props, ok := propertiesRaw.(*RawObject)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: properties must be an object at %s", path)
		}
		out.Properties = make(map[string]schema.Schema, props.Len())
		out.PropertyOrder = make([]string, 0, props.Len())
		for pair := props.Oldest(); pair != nil; pair = pair.Next() {
			childPath := joinPath(path, "properties", pair.Key)
			converted, err := schemaFromRaw(pair.Value, childPath)
			if err != nil {
				return schema.Schema{}, err
			}
			out.Properties[pair.Key] = converted
			out.PropertyOrder = append(out.PropertyOrder, pair.Key)
		}
	}

	if itemsRaw, ok := payload.Get("items"); ok {
		switch typed := itemsRaw.(type) {
		case *RawObject:
			childPath := joinPath(path, "items")
			converted, err := schemaFromRaw(typed, childPath)
			if err != nil {
				return schema.Schema{}, err
			}
			out.Items = []schema.Schema{converted}
		case []any:
			out.Items = make([]schema.Schema, 0, len(typed))
			for idx, entry := range typed {
				childPath := joinPath(path, "items", fmt.Sprintf("%d", idx))
				converted, err := schemaFromRaw(entry, childPath)
				if err != nil {
					return schema.Schema{}, err
				}
				out.Items = append(out.Items, converted)
			}
		case bool:
			// items: true/false carries no member schemas
		default:
			return schema.Schema{}, fmt.Errorf("jsonschema: items must be an object or array at %s", path)
		}
	}

	if allOfRaw, ok := payload.Get("allOf"); ok {
		list, ok := allOfRaw.([]any)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: allOf must be an array at %s", path)
		}
		out.AllOf = make([]schema.Schema, 0, len(list))
		for idx, entry := range list {
			childPath := joinPath(path, "allOf", fmt.Sprintf("%d", idx))
			converted, err := schemaFromRaw(entry, childPath)
			if err != nil {
				return schema.Schema{}, err
			}
			out.AllOf = append(out.AllOf, converted)
		}
	}

	return out, nil
}

func extractExtensions(payload *RawObject) map[string]any {
	var extensions map[string]any
	for pair := payload.Oldest(); pair != nil; pair = pair.Next() {
		if !isVendorExtension(pair.Key) {
			continue
		}
		if extensions == nil {
			extensions = make(map[string]any)
		}
		extensions[pair.Key] = pair.Value
	}
	return extensions
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
		return 0, false
	case float32:
		if v == float32(math.Trunc(float64(v))) {
			return int(v), true
		}
		return 0, false
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	default:
		return 0, false
	}
}

func joinPath(path string, segments ...string) string {
	if path == "" || path == "#" {
		path = "#"
	}
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		path = path + "/" + escapeJSONPointer(segment)
	}
	return path
}

func escapeJSONPointer(value string) string {
	replacer := strings.NewReplacer("~", "~0", "/", "~1")
	return replacer.Replace(value)
}
