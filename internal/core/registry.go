package core

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// The registry holds every compiled-in module, keyed by ID. Modules
// add themselves from init() functions; the app looks them up when
// loading the configured set.
var (
	modulesMu sync.RWMutex
	modules   = make(map[ModuleID]ModuleInfo)
)

// RegisterModule registers a module by instantiating it to read its
// ModuleInfo. It panics on a duplicate ID or invalid info, since both
// are programmer errors surfaced at process start. Intended to be
// called from init() functions.
func RegisterModule(instance Module) {
	info := instance.ModuleInfo()
	if info.ID == "" {
		panic("module ID must not be empty")
	}
	if info.New == nil {
		panic(fmt.Sprintf("module %s: New function must not be nil", info.ID))
	}

	modulesMu.Lock()
	defer modulesMu.Unlock()

	if _, exists := modules[info.ID]; exists {
		panic(fmt.Sprintf("module already registered: %s", info.ID))
	}
	modules[info.ID] = info
}

// GetModule returns the ModuleInfo for the given ID, or false if not found.
func GetModule(id string) (ModuleInfo, bool) {
	modulesMu.RLock()
	defer modulesMu.RUnlock()
	info, ok := modules[ModuleID(id)]
	return info, ok
}

// GetModules returns all registered modules sorted by ID.
func GetModules() []ModuleInfo {
	modulesMu.RLock()
	defer modulesMu.RUnlock()

	all := make([]ModuleInfo, 0, len(modules))
	for _, info := range modules {
		all = append(all, info)
	}
	slices.SortFunc(all, func(a, b ModuleInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return all
}

// resetRegistry clears the registry. Only for testing.
func resetRegistry() {
	modulesMu.Lock()
	defer modulesMu.Unlock()
	modules = make(map[ModuleID]ModuleInfo)
}
