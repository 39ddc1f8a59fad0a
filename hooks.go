package framecap

var hooks []Wrapper

// AddHooks installs a global set of Wrappers which are applied to every error processed
// by this package.  They are applied before any other Wrappers or stack capturing are
// applied.  Hooks can add additional wrappers to errors, or translate annotations added
// by other error libraries into this package's annotations.
//
// This function is not thread safe, and should only be called very early in program
// initialization.
func AddHooks(hook ...Wrapper) {
	hooks = append(hooks, hook...)
}

// AddOnceHooks is like AddHooks, but these hooks are applied at most once per
// error chain.  Wrapping an error which has already passed through the hook
// will not apply it again.
//
// This function is not thread safe, and should only be called very early in program
// initialization.
func AddOnceHooks(hook ...Wrapper) {
	for _, h := range hook {
		h := h
		marker := new(int)
		hooks = append(hooks, WrapperFunc(func(err error, depth int) error {
			if err == nil {
				return nil
			}
			if _, applied := Lookup(err, marker); applied {
				return err
			}
			return Set(h.Wrap(err, depth+1), marker, true)
		}))
	}
}

// ClearHooks removes all installed hooks.
//
// This function is not thread safe, and should only be called very early in program
// initialization.
func ClearHooks() {
	hooks = nil
}
