package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable creates a read-only platform table and injects it into the Lua state as a global.
// This should be called before loading any user configuration code.
//
// The table always carries the raw detection fields. The canonical key fields
// (arch, libc, artifact_os) are only set when the platform is supported, so a
// config can still be parsed on an unsupported machine.
func InjectPlatformTable(L *lua.LState, info *Info) error {
	platformTable := L.NewTable()

	L.SetField(platformTable, "os_raw", lua.LString(info.OS))
	L.SetField(platformTable, "arch_raw", lua.LString(info.ArchRaw))

	if key, err := info.Key(); err == nil {
		L.SetField(platformTable, "os", lua.LString(key.OS))
		L.SetField(platformTable, "arch", lua.LString(key.Arch))
		L.SetField(platformTable, "libc", lua.LString(key.Libc))
		L.SetField(platformTable, "is_linux", lua.LBool(key.OS == OSLinux))
		L.SetField(platformTable, "is_macos", lua.LBool(key.OS == OSDarwin))
		L.SetField(platformTable, "is_windows", lua.LBool(key.OS == OSWindows))
		L.SetField(platformTable, "is_arm64", lua.LBool(key.Arch == ArchARM64))
		L.SetField(platformTable, "is_x64", lua.LBool(key.Arch == ArchX64))
		L.SetField(platformTable, "supported", lua.LTrue)
	} else {
		L.SetField(platformTable, "supported", lua.LFalse)
	}

	L.SetField(platformTable, "is_musl", lua.LBool(info.IsMusl()))
	L.SetField(platformTable, "is_alpine", lua.LBool(info.IsAlpine()))

	if info.Platform != "" {
		distroTable := L.NewTable()
		L.SetField(distroTable, "id", lua.LString(info.Platform))
		L.SetField(distroTable, "family", lua.LString(info.Family))
		L.SetField(distroTable, "version", lua.LString(info.Version))
		L.SetField(platformTable, "distro", distroTable)
	}

	// when(condition, value) returns value if condition is true, nil otherwise
	whenFunc := L.NewFunction(func(L *lua.LState) int {
		cond := L.CheckBool(1)
		value := L.Get(2)
		if cond {
			L.Push(value)
		} else {
			L.Push(lua.LNil)
		}
		return 1
	})
	L.SetField(platformTable, "when", whenFunc)

	L.SetGlobal("platform", makeReadOnly(L, platformTable))

	return nil
}

// makeReadOnly makes a Lua table read-only by creating a proxy table with a metatable.
// The proxy redirects reads to the original table but prevents all writes.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()

	L.SetField(mt, "__index", table)

	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))

	// Prevent changing the metatable itself
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)

	return proxy
}
