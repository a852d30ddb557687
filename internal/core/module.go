package core

// ModuleID uniquely identifies a module, namespaced by kind
// (e.g. "channel.telegram", "tracking.tgtrack", "gateway.http").
type ModuleID string

// ModuleInfo describes a registered module: its identity and how to
// instantiate it.
type ModuleInfo struct {
	// ID is the unique, namespaced module identifier.
	ID ModuleID

	// New returns a fresh, unconfigured instance of the module.
	New func() Module
}

// Module is the minimal interface every module implements. Lifecycle
// behavior is added through the optional interfaces in lifecycle.go.
type Module interface {
	ModuleInfo() ModuleInfo
}
