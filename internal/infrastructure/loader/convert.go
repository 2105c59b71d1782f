package loader

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/dop251/goja"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
)

const (
	maxDepth       = 32
	maxArrayLength = 1 << 16
)

func (b *binding) export(v goja.Value, depth int) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("value nested deeper than %d levels", maxDepth)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	if fn, ok := goja.AssertFunction(v); ok {
		return b.wrap(fn), nil
	}

	obj, ok := v.(*goja.Object)
	if !ok {
		return primitive(v.Export()), nil
	}

	switch obj.ClassName() {
	case "Array":
		length := obj.Get("length").ToInteger()
		if length > maxArrayLength {
			return nil, fmt.Errorf("array of %d items exceeds the limit of %d", length, maxArrayLength)
		}
		items := []any{}
		for i := int64(0); i < length; i++ {
			item, err := b.export(obj.Get(strconv.FormatInt(i, 10)), depth+1)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return items, nil
	case "Date":
		if t, ok := obj.Export().(time.Time); ok {
			return t.UTC().Format(time.RFC3339), nil
		}
		return obj.String(), nil
	}

	out := make(map[string]any)
	for _, key := range obj.Keys() {
		item, err := b.export(obj.Get(key), depth+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[key] = item
	}
	return out, nil
}

func (b *binding) wrap(fn goja.Callable) playground.Func {
	return func(args ...any) (any, error) {
		var out any
		err := b.run(context.Background(), func() error {
			values := make([]goja.Value, len(args))
			for i, arg := range args {
				values[i] = b.vm.ToValue(arg)
			}
			result, err := fn(goja.Undefined(), values...)
			if err != nil {
				return err
			}
			out, err = b.export(result, 0)
			return err
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

func primitive(value any) any {
	switch v := value.(type) {
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case *big.Int:
		return v.String()
	default:
		return v
	}
}
