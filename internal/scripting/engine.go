// Package scripting runs Lua functions that drive per-tick values such as
// shader uniforms.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only: it
// belongs to the world whose systems call it.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script in scriptsDir.
// A missing directory yields an engine with no user functions.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log.Named("lua")}
	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source, typically to define functions.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load chunk: %w", err)
	}
	return nil
}

// Has reports whether a global function named fn exists.
func (e *Engine) Has(fn string) bool {
	_, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	return ok
}

// Eval calls the global fn with the elapsed time t in seconds. The function
// returns either a number or an array of numbers.
func (e *Engine) Eval(fn string, t float64) ([]float32, error) {
	f, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("lua function %s not found", fn)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(t)); err != nil {
		return nil, fmt.Errorf("call %s: %w", fn, err)
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)

	switch v := result.(type) {
	case lua.LNumber:
		return []float32{float32(v)}, nil
	case *lua.LTable:
		out := make([]float32, 0, v.Len())
		for i := 1; i <= v.Len(); i++ {
			n, ok := v.RawGetInt(i).(lua.LNumber)
			if !ok {
				return nil, fmt.Errorf("%s: element %d is %s, not a number", fn, i, v.RawGetInt(i).Type())
			}
			out = append(out, float32(n))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s returned %s, want number or table", fn, result.Type())
	}
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
