package forth

type Option interface{ apply(f *Forth) }

type carryStackOption bool

// WithCarryStack makes each execution line start from the committed stack
// instead of an empty one.
func WithCarryStack(carry bool) Option { return carryStackOption(carry) }

func (c carryStackOption) apply(f *Forth) {
	f.carry = bool(c)
}
