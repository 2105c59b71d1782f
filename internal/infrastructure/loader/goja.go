// Package loader evaluates executable module text inside isolated goja
// runtimes and hands the resulting exports back as plain Go values.
package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/ports"
)

const (
	defaultTimeout   = 2 * time.Second
	defaultCacheSize = 32
)

// Options configures a Goja loader.
type Options struct {
	Format    string
	Timeout   time.Duration
	CacheSize int
	Logger    ports.Logger
}

// Goja implements ports.Evaluator. Every Load gets a fresh runtime, so modules
// never observe each other's globals.
type Goja struct {
	format  string
	timeout time.Duration
	cache   *programCache
	logger  ports.Logger
}

// New returns a loader for modules emitted in opts.Format.
func New(opts Options) (*Goja, error) {
	format := opts.Format
	if format == "" {
		format = playground.FormatCommonJS
	}
	switch format {
	case playground.FormatCommonJS, playground.FormatIIFE:
	case playground.FormatESM:
		return nil, fmt.Errorf("module format %q cannot be evaluated in memory: the sandbox has no module linker", format)
	default:
		return nil, fmt.Errorf("unsupported module format %q", format)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}

	return &Goja{
		format:  format,
		timeout: timeout,
		cache:   newProgramCache(size),
		logger:  opts.Logger,
	}, nil
}

// Digest returns the content address of executable text.
func Digest(executable string) string {
	sum := sha256.Sum256([]byte(executable))
	return "inline:sha256-" + hex.EncodeToString(sum[:])
}

// Load implements ports.Evaluator.
func (l *Goja) Load(ctx context.Context, executable string) (exports playground.Exports, err error) {
	digest := Digest(executable)

	defer func() {
		if r := recover(); r != nil {
			exports = nil
			err = playground.NewLoadError(digest, fmt.Errorf("sandbox panic: %v", r))
		}
	}()

	program, err := l.program(digest, executable)
	if err != nil {
		return nil, playground.NewLoadError(digest, err)
	}

	vm := goja.New()
	module := l.installGlobals(ctx, vm, digest)

	b := &binding{vm: vm, timeout: l.timeout}
	err = b.run(ctx, func() error {
		if _, err := vm.RunProgram(program); err != nil {
			return err
		}
		var namespace goja.Value
		switch l.format {
		case playground.FormatIIFE:
			namespace = vm.Get(playground.IIFEGlobal)
		default:
			namespace = module.Get("exports")
		}
		// Reading the namespace may run getters, so it stays under the watchdog.
		exports, err = b.exports(namespace)
		return err
	})
	if err != nil {
		return nil, playground.NewLoadError(digest, err)
	}

	if l.logger != nil {
		l.logger.Debug(ctx, "module loaded", "module", digest, "exports", len(exports))
	}
	return exports, nil
}

func (l *Goja) program(digest, executable string) (*goja.Program, error) {
	if program, ok := l.cache.get(digest); ok {
		return program, nil
	}
	program, err := goja.Compile(digest, executable, false)
	if err != nil {
		return nil, err
	}
	l.cache.put(digest, program)
	return program, nil
}

func (l *Goja) installGlobals(ctx context.Context, vm *goja.Runtime, digest string) *goja.Object {
	module := vm.NewObject()
	exports := vm.NewObject()
	_ = module.Set("exports", exports)
	_ = vm.Set("module", module)
	_ = vm.Set("exports", exports)

	_ = vm.Set("require", func(call goja.FunctionCall) goja.Value {
		panic(vm.NewTypeError(fmt.Sprintf("require(%q) is not available in the playground sandbox", call.Argument(0).String())))
	})

	console := vm.NewObject()
	for _, level := range []string{"log", "info", "warn", "error", "debug"} {
		level := level
		_ = console.Set(level, func(call goja.FunctionCall) goja.Value {
			if l.logger != nil {
				parts := make([]string, 0, len(call.Arguments))
				for _, arg := range call.Arguments {
					parts = append(parts, arg.String())
				}
				l.logger.Debug(ctx, "sandbox console", "module", digest, "level", level, "message", strings.Join(parts, " "))
			}
			return goja.Undefined()
		})
	}
	_ = vm.Set("console", console)

	return module
}

// binding serializes access to one runtime. Exported functions keep using the
// runtime after Load returns, so every entry point goes through run.
type binding struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	timeout time.Duration
}

func (b *binding) run(ctx context.Context, fn func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-runCtx.Done():
			b.vm.Interrupt(runCtx.Err())
		case <-done:
		}
	}()

	b.vm.ClearInterrupt()
	err := b.catch(fn)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			b.vm.ClearInterrupt()
			if cause, ok := interrupted.Value().(error); ok {
				return fmt.Errorf("evaluation interrupted: %w", cause)
			}
		}
		return err
	}
	return nil
}

// catch runs fn inside the runtime's exception handling. Go code that reads
// object properties can trigger getters, and goja raises their exceptions and
// interrupts as panics.
func (b *binding) catch(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			interrupted, ok := r.(*goja.InterruptedError)
			if !ok {
				panic(r)
			}
			err = interrupted
		}
	}()

	if ex := b.vm.Try(func() { err = fn() }); ex != nil {
		return ex
	}
	return err
}

func (b *binding) exports(namespace goja.Value) (playground.Exports, error) {
	if namespace == nil || goja.IsUndefined(namespace) || goja.IsNull(namespace) {
		return playground.Exports{}, nil
	}
	obj, ok := namespace.(*goja.Object)
	if !ok {
		return nil, fmt.Errorf("module namespace is %s, not an object", namespace.ExportType())
	}
	out := make(playground.Exports)
	for _, key := range obj.Keys() {
		value, err := b.export(obj.Get(key), 0)
		if err != nil {
			return nil, fmt.Errorf("export %q: %w", key, err)
		}
		out[key] = value
	}
	return out, nil
}
