package hexagone

// Config controls VM run-time policy left open by the specification,
// built with NewConfig and chained With* methods returning a modified copy
// (the same immutable-builder idiom wazero's RuntimeConfig uses).
type Config struct {
	wrappingDivideByZero bool
}

// NewConfig returns the recommended default policy: every divide/remainder
// opcode raises ErrorKindDivideByZero on a zero divisor.
func NewConfig() *Config {
	return &Config{}
}

func (c *Config) clone() *Config {
	ret := *c
	return &ret
}

// WithWrappingDivideByZero makes the eight divide/remainder opcodes produce
// 0 on a zero divisor instead of raising ErrorKindDivideByZero. This exists
// to support embedders replaying code authored against the reference VM's
// older, open-ended division behavior; new guest code should prefer the
// default.
func (c *Config) WithWrappingDivideByZero() *Config {
	ret := c.clone()
	ret.wrappingDivideByZero = true
	return ret
}
