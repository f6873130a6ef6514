package okskema

// Collector accumulates failures from independent checks. Containers use it
// to merge child outcomes: every child is evaluated and its failures are
// appended below the child's segment, no matter how many siblings failed.
type Collector struct {
	failures Failures
}

// Add appends failures located at the collector's own node.
func (c *Collector) Add(fs ...Failure) {
	c.failures = append(c.failures, fs...)
}

// AddUnder appends child failures rebased below seg.
func (c *Collector) AddUnder(seg Segment, fs Failures) {
	if len(fs) == 0 {
		return
	}
	c.failures = append(c.failures, fs.Under(seg)...)
}

// Failed reports whether anything was collected.
func (c *Collector) Failed() bool { return len(c.failures) > 0 }

// Len returns the number of collected failures.
func (c *Collector) Len() int { return len(c.failures) }

// Failures returns the collected failures in insertion order.
func (c *Collector) Failures() Failures { return c.failures }

// Collect merges the outcome of a child validated at seg into c and returns
// the child's value when it was valid.
func Collect[T any](c *Collector, seg Segment, o Outcome[T]) (T, bool) {
	if !o.IsValid() {
		c.AddUnder(seg, o.failures)
		var zero T
		return zero, false
	}
	return o.value, true
}

// Conclude turns the collector into an Outcome: Valid(v) when nothing was
// collected, Invalid otherwise.
func Conclude[T any](c *Collector, v T) Outcome[T] {
	if len(c.failures) == 0 {
		return Valid(v)
	}
	return Invalid[T](c.failures)
}
