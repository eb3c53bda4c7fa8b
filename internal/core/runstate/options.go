// SPDX-License-Identifier: MPL-2.0

package runstate

// Option configures a Machine.
type Option func(*Machine)

// WithTransitionHook calls fn after every successful transition.
func WithTransitionHook(fn func(from, to State)) Option {
	return func(m *Machine) {
		m.onChange = fn
	}
}
