package component

// Wrapper is implemented by wrappers whose payload may itself be a wrapper.
type Wrapper interface {
	Unwrap() any
}

// unwrapLayer returns the payload as a layer WithChanged can act on: pointer
// payloads are returned as-is, value payloads by address.
func unwrapLayer[T any](data *T) any {
	switch any(data).(type) {
	case ChangedFlag, Wrapper:
		return data
	}
	switch inner := any(*data).(type) {
	case ChangedFlag, Wrapper:
		return inner
	}
	return data
}

// WithChanged sets the flag of the outermost Changed layer inside v, however
// deeply it is nested in other wrappers, and returns v for chaining.
// It panics if no layer carries a flag.
func WithChanged[W any](v W, changed bool) W {
	if !setChanged(v, changed) {
		panic("component: no Changed layer in wrapper stack")
	}
	return v
}

// IsChanged reports the flag of the outermost Changed layer inside v.
func IsChanged(v any) (changed, ok bool) {
	for cur := v; cur != nil; {
		if f, isFlag := cur.(ChangedFlag); isFlag {
			return f.GetChanged(), true
		}
		w, isWrapper := cur.(Wrapper)
		if !isWrapper {
			return false, false
		}
		cur = w.Unwrap()
	}
	return false, false
}

func setChanged(v any, changed bool) bool {
	for cur := v; cur != nil; {
		if f, ok := cur.(ChangedFlag); ok {
			f.SetChanged(changed)
			return true
		}
		w, ok := cur.(Wrapper)
		if !ok {
			return false
		}
		cur = w.Unwrap()
	}
	return false
}

// NewUsageChanged builds Usage[U, *Changed[T]], the shape used for
// usage-tagged descriptors.
func NewUsageChanged[U, T any](v T, changed bool) *Usage[U, *Changed[T]] {
	return NewUsage[U](NewChanged(v, changed))
}

// NewUsageLazy builds Usage[U, *LazyComponent[R, Unit, Unit]] in the Pending state.
func NewUsageLazy[U, R any]() *Usage[U, *LazyComponent[R, Unit, Unit]] {
	return NewUsage[U](NewLazy[R]())
}
