package config

import (
	"context"

	lua "github.com/yuin/gopher-lua"
)

// safeLibs are the only standard libraries opened in the config VM.
var safeLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// blockedGlobals are base functions that load code or escape the sandbox.
var blockedGlobals = []string{
	"require",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"module",
	"collectgarbage",
	"getfenv",
	"setfenv",
	"rawset",
	"rawget",
	"setmetatable",
	"getmetatable",
}

// newSandboxedVM creates a Lua VM for config parsing. Only the base, table,
// string and math libraries are opened, so os, io, debug and package are
// never reachable. Execution stops when ctx is done.
func newSandboxedVM(ctx context.Context) *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:        true,
		CallStackSize:       256,
		RegistrySize:        1024 * 8,
		IncludeGoStackTrace: false,
	})

	for _, lib := range safeLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetContext(ctx)
	return L
}
