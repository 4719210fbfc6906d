package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM that defines GM console macros. Scripts
// run once at load time; after that the macro table is read-only, so Expand
// is safe from any goroutine.
type Engine struct {
	vm     *lua.LState
	log    *zap.Logger
	macros map[string][]string
}

// NewEngine creates the VM, exposes register_macro and runs every .lua file
// under scriptsDir/gm. A missing directory just means no macros.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, macros: make(map[string][]string)}
	vm.SetGlobal("register_macro", vm.NewFunction(e.luaRegisterMacro))

	if err := e.loadDir(filepath.Join(scriptsDir, "gm")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load gm scripts: %w", err)
	}
	return e, nil
}

// luaRegisterMacro implements register_macro(name, {"_dmg 10", "ill"}).
// Each entry is a built-in command with the target token left out; the
// dispatcher reinserts the target at expansion time.
func (e *Engine) luaRegisterMacro(L *lua.LState) int {
	name := strings.ToLower(L.CheckString(1))
	tbl := L.CheckTable(2)

	if name == "" {
		L.RaiseError("register_macro: empty name")
		return 0
	}
	if _, dup := e.macros[name]; dup {
		L.RaiseError("register_macro: duplicate macro %q", name)
		return 0
	}

	var cmds []string
	tbl.ForEach(func(_, v lua.LValue) {
		s := strings.TrimSpace(lua.LVAsString(v))
		if s != "" {
			cmds = append(cmds, s)
		}
	})
	if len(cmds) == 0 {
		L.RaiseError("register_macro: macro %q has no commands", name)
		return 0
	}

	e.macros[name] = cmds
	e.log.Debug("registered gm macro", zap.String("name", name), zap.Int("commands", len(cmds)))
	return 0
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
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

// Expand returns the command list for a macro verb.
func (e *Engine) Expand(verb string) ([]string, bool) {
	cmds, ok := e.macros[strings.ToLower(verb)]
	return cmds, ok
}

// Count returns how many macros are registered.
func (e *Engine) Count() int {
	return len(e.macros)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
