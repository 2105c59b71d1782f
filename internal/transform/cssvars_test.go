package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
)

func TestCSSVarsScalarExport(t *testing.T) {
	t.Parallel()

	out, err := CSSVars{}.Transform(playground.Exports{"x": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, ":root {\n  --x: 1;\n}\n", out)
}

func TestCSSVarsKebabCasesExportNames(t *testing.T) {
	t.Parallel()

	out, err := CSSVars{}.Transform(playground.Exports{
		"primaryColor": "#336699",
		"line_height":  1.5,
	})
	require.NoError(t, err)
	assert.Equal(t, ":root {\n  --line-height: 1.5;\n  --primary-color: #336699;\n}\n", out)
}

func TestCSSVarsRuleWithProperties(t *testing.T) {
	t.Parallel()

	exports := playground.Exports{
		"fontSize": map[string]any{
			"prefix": "font-size",
			"value":  map[string]any{"sm": "10px", "md": "12px"},
			"properties": []any{
				map[string]any{"prop": "font-size", "selector": ".text-{key}"},
			},
		},
	}

	out, err := CSSVars{}.Transform(exports)
	require.NoError(t, err)

	want := strings.Join([]string{
		":root {",
		"  --font-size-md: 12px;",
		"  --font-size-sm: 10px;",
		"}",
		"",
		".text-md {",
		"  font-size: var(--font-size-md);",
		"}",
		"",
		".text-sm {",
		"  font-size: var(--font-size-sm);",
		"}",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestCSSVarsNestedValuesAndFunctions(t *testing.T) {
	t.Parallel()

	exports := playground.Exports{
		"colors": map[string]any{
			"value": map[string]any{
				"primary": map[string]any{"light": "#a", "dark": "#b"},
			},
			"valueTransformer": playground.Func(func(args ...any) (any, error) {
				arg := args[0].(map[string]any)
				return strings.ToUpper(arg["value"].(string)), nil
			}),
			"properties": []any{
				map[string]any{
					"prop": []any{"color", "border-color"},
					"selector": playground.Func(func(args ...any) (any, error) {
						return ".c-" + args[0].(string), nil
					}),
				},
			},
		},
		"helper": playground.Func(func(args ...any) (any, error) { return nil, nil }),
	}

	out, err := CSSVars{}.Transform(exports)
	require.NoError(t, err)
	assert.Contains(t, out, "  --colors-primary-dark: #B;\n")
	assert.Contains(t, out, "  --colors-primary-light: #A;\n")
	assert.Contains(t, out, ".c-primary-dark {\n  color: var(--colors-primary-dark);\n  border-color: var(--colors-primary-dark);\n}\n")
	assert.NotContains(t, out, "helper")
}

func TestCSSVarsIsDeterministic(t *testing.T) {
	t.Parallel()

	exports := playground.Exports{
		"b": "2", "a": "1",
		"space": map[string]any{"value": map[string]any{"x": "1px", "y": "2px", "z": "3px"}},
	}
	first, err := CSSVars{}.Transform(exports)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := CSSVars{}.Transform(exports)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestCSSVarsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		exports playground.Exports
		want    string
	}{
		{name: "null scalar", exports: playground.Exports{"x": nil}, want: "null"},
		{name: "array export", exports: playground.Exports{"x": []any{"a"}}, want: "unsupported"},
		{name: "missing value", exports: playground.Exports{"x": map[string]any{"prefix": "x"}}, want: "no value"},
		{name: "bad prefix", exports: playground.Exports{"x": map[string]any{"prefix": 1.0, "value": "a"}}, want: "prefix"},
		{
			name: "bad prop",
			exports: playground.Exports{"x": map[string]any{
				"value":      "a",
				"properties": []any{map[string]any{"prop": 1.0, "selector": ".x"}},
			}},
			want: "prop",
		},
		{
			name: "selector error",
			exports: playground.Exports{"x": map[string]any{
				"value": map[string]any{"k": "a"},
				"properties": []any{map[string]any{
					"prop": "color",
					"selector": playground.Func(func(args ...any) (any, error) {
						return nil, errors.New("boom")
					}),
				}},
			}},
			want: "boom",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := CSSVars{}.Transform(tt.exports)
			require.Error(t, err)
			assert.Equal(t, playground.ErrCodeTransform, playground.CodeOf(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestKebab(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "font-size", kebab("fontSize"))
	assert.Equal(t, "x", kebab("x"))
	assert.Equal(t, "line-height", kebab("line_height"))
	assert.Equal(t, "z-index", kebab("zIndex"))
}
