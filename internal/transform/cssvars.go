package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
)

// CSSVars turns every export into CSS custom properties.
//
// A scalar export becomes a single variable named after the export in kebab
// case. An object export is a rule:
//
//	export const fontSize = {
//	  prefix: 'font-size',
//	  value: { sm: '10px', md: '12px' },
//	  valueTransformer: ({ key, value }) => value,
//	  properties: [{ prop: 'font-size', selector: '.text-{key}' }],
//	};
//
// Nested value objects are flattened with "-". Every (property, key) pair
// gets a rule block that references the variable. Exported functions are
// helpers and are skipped.
type CSSVars struct{}

// Name implements ports.Transformer.
func (CSSVars) Name() string { return NameCSSVars }

type variable struct {
	key   string
	name  string
	value string
}

type property struct {
	props    []string
	selector func(key string) (string, error)
}

// Transform implements ports.Transformer.
func (c CSSVars) Transform(exports playground.Exports) (string, error) {
	var (
		root   []variable
		blocks []string
	)

	for _, name := range sortedKeys(exports) {
		switch v := exports[name].(type) {
		case playground.Func:
			continue
		case map[string]any:
			vars, rules, err := c.rule(name, v)
			if err != nil {
				return "", playground.NewTransformError(NameCSSVars, fmt.Errorf("export %q: %w", name, err))
			}
			root = append(root, vars...)
			blocks = append(blocks, rules...)
		default:
			value, err := scalar(v)
			if err != nil {
				return "", playground.NewTransformError(NameCSSVars, fmt.Errorf("export %q: %w", name, err))
			}
			root = append(root, variable{name: "--" + kebab(name), value: value})
		}
	}

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range root {
		fmt.Fprintf(&b, "  %s: %s;\n", v.name, v.value)
	}
	b.WriteString("}\n")
	for _, block := range blocks {
		b.WriteString("\n")
		b.WriteString(block)
	}
	return b.String(), nil
}

func (c CSSVars) rule(name string, rule map[string]any) ([]variable, []string, error) {
	prefix := kebab(name)
	if raw, ok := rule["prefix"]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, nil, fmt.Errorf("prefix must be a string")
		}
		prefix = s
	}

	raw, ok := rule["value"]
	if !ok {
		return nil, nil, fmt.Errorf("rule has no value")
	}
	entries := map[string]any{}
	if err := flatten("", raw, entries, 0); err != nil {
		return nil, nil, err
	}

	var transformer playground.Func
	if raw, ok := rule["valueTransformer"]; ok {
		fn, ok := raw.(playground.Func)
		if !ok {
			return nil, nil, fmt.Errorf("valueTransformer must be a function")
		}
		transformer = fn
	}

	vars := make([]variable, 0, len(entries))
	for _, key := range sortedKeys(entries) {
		value := entries[key]
		if transformer != nil {
			out, err := transformer(map[string]any{"key": key, "value": value})
			if err != nil {
				return nil, nil, fmt.Errorf("valueTransformer(%q): %w", key, err)
			}
			value = out
		}
		text, err := scalar(value)
		if err != nil {
			return nil, nil, fmt.Errorf("value %q: %w", key, err)
		}
		vars = append(vars, variable{key: key, name: "--" + join(prefix, key), value: text})
	}

	props, err := properties(rule["properties"])
	if err != nil {
		return nil, nil, err
	}

	var blocks []string
	for _, p := range props {
		for _, v := range vars {
			selector, err := p.selector(v.key)
			if err != nil {
				return nil, nil, err
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%s {\n", selector)
			for _, prop := range p.props {
				fmt.Fprintf(&b, "  %s: var(%s);\n", prop, v.name)
			}
			b.WriteString("}\n")
			blocks = append(blocks, b.String())
		}
	}

	return vars, blocks, nil
}

func properties(raw any) ([]property, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("properties must be an array")
	}

	out := make([]property, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("properties[%d] must be an object", i)
		}

		var p property
		switch prop := obj["prop"].(type) {
		case string:
			p.props = []string{prop}
		case []any:
			for _, name := range prop {
				s, ok := name.(string)
				if !ok {
					return nil, fmt.Errorf("properties[%d].prop must contain strings", i)
				}
				p.props = append(p.props, s)
			}
		default:
			return nil, fmt.Errorf("properties[%d].prop must be a string or an array of strings", i)
		}

		switch selector := obj["selector"].(type) {
		case string:
			p.selector = func(key string) (string, error) {
				return strings.ReplaceAll(selector, "{key}", key), nil
			}
		case playground.Func:
			p.selector = func(key string) (string, error) {
				out, err := selector(key)
				if err != nil {
					return "", fmt.Errorf("selector(%q): %w", key, err)
				}
				s, ok := out.(string)
				if !ok {
					return "", fmt.Errorf("selector(%q) returned %T, not a string", key, out)
				}
				return s, nil
			}
		default:
			return nil, fmt.Errorf("properties[%d].selector must be a string or a function", i)
		}

		out = append(out, p)
	}
	return out, nil
}

const maxFlattenDepth = 16

func flatten(path string, value any, out map[string]any, depth int) error {
	if depth > maxFlattenDepth {
		return fmt.Errorf("value nested deeper than %d levels", maxFlattenDepth)
	}
	obj, ok := value.(map[string]any)
	if !ok {
		out[path] = value
		return nil
	}
	for key, child := range obj {
		if err := flatten(join(path, key), child, out, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func scalar(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("value is null")
	default:
		return "", fmt.Errorf("unsupported value of type %T", value)
	}
}

func join(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "-" + key
	}
}

// kebab converts an identifier such as fontSize to font-size.
func kebab(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if r == '_' {
			b.WriteByte('-')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
