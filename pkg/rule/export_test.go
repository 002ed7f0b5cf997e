package rule

// Computations returns how many times the identity set was built.
func (r *Registry) Computations() int64 {
	return r.computed.Load()
}
