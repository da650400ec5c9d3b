package solver

// Amount is a fixed-dimension vector of non-negative cargo quantities,
// one component per measured unit (weight, volume, pallets, ...).
type Amount []int64

// ZeroAmount returns an all-zero amount of the given dimension.
func ZeroAmount(dim int) Amount {
	return make(Amount, dim)
}

// Clone returns an independent copy of a.
func (a Amount) Clone() Amount {
	out := make(Amount, len(a))
	copy(out, a)
	return out
}

// Add returns the componentwise sum a + b as a new Amount.
func (a Amount) Add(b Amount) Amount {
	out := a.Clone()
	for i := range b {
		out[i] += b[i]
	}
	return out
}

// Sub returns the componentwise difference a - b as a new Amount.
func (a Amount) Sub(b Amount) Amount {
	out := a.Clone()
	for i := range b {
		out[i] -= b[i]
	}
	return out
}

// AddTo adds b into a in place.
func (a Amount) AddTo(b Amount) {
	for i := range b {
		a[i] += b[i]
	}
}

// LE reports whether a <= b componentwise.
func (a Amount) LE(b Amount) bool {
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

// Equal reports componentwise equality.
func (a Amount) Equal(b Amount) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Below reports the strict partial order a << b: a is componentwise <= b
// and strictly smaller in at least one component. It is not a total
// order, so callers sorting on it must supply their own tie-breaking.
func (a Amount) Below(b Amount) bool {
	strict := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strict = true
		}
	}
	return strict
}

// Max returns the componentwise maximum of a and b as a new Amount.
func (a Amount) Max(b Amount) Amount {
	out := a.Clone()
	for i := range b {
		if b[i] > out[i] {
			out[i] = b[i]
		}
	}
	return out
}
