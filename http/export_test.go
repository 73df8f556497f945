package http

// Len returns the number of tracked users.
func (l *SearchLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
