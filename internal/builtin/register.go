package builtin

// RegisterAll adds every builtin to the registry.
func RegisterAll(r *Registry) {
	r.Register(&Alias{})
	r.Register(&Cd{})
	r.Register(&Echo{})
	r.Register(&Exit{})
	r.Register(&Export{})
	r.Register(&History{})
	r.Register(&Pwd{})
	r.Register(&Set{})
	r.Register(&Unalias{})
	r.Register(&Unset{})
}

// Default returns a registry holding every builtin.
func Default() *Registry {
	r := NewRegistry()
	RegisterAll(r)
	return r
}
