// Package diversity reorders a scored candidate list under
// category-balance and sponsored caps.
package diversity

// Option applies a configuration option to the Enforcer.
type Option func(*Enforcer)

// WithCategoryCapFrac sets the maximum fraction of the final K that a
// single category may occupy. Values outside (0, 1] are ignored.
func WithCategoryCapFrac(frac float64) Option {
	return func(e *Enforcer) {
		if frac > 0 && frac <= 1 {
			e.categoryCapFrac = frac
		}
	}
}

// WithSponsoredCapFrac sets the maximum fraction of the final K that
// sponsored items may occupy. Values outside (0, 1] are ignored.
func WithSponsoredCapFrac(frac float64) Option {
	return func(e *Enforcer) {
		if frac > 0 && frac <= 1 {
			e.sponsoredCapFrac = frac
		}
	}
}
