package playground

// Exports is the evaluated module namespace: export name to value. Values are
// plain Go data (map[string]any, []any, string, float64, bool, nil) or Func.
type Exports map[string]any

// Func is a callable exported by a sandboxed module. Arguments and results use
// the same value shapes as Exports.
type Func func(args ...any) (any, error)
