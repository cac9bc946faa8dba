package ui

// The registry maps a stable kind key to an element factory. Callers
// resolve the factory once (pool construction, panel assembly) instead of
// switching on runtime types per call.

var registry = map[Kind]func() Element{}

// Register binds a factory to a kind. Later registrations replace earlier
// ones, which keeps tests free to install fakes.
func Register(k Kind, factory func() Element) {
	registry[k] = factory
}

// New constructs an element of the given kind. The second result is false
// when the kind was never registered.
func New(k Kind) (Element, bool) {
	f, ok := registry[k]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Registered reports whether a factory exists for k.
func Registered(k Kind) bool {
	_, ok := registry[k]
	return ok
}
