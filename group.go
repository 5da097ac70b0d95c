package tinytest

// Group is an ordered collection of tests executed and reported together.
// Insertion order is execution order. A Group holds no execution state:
// running it again re-executes every contained test, so repeat runs of
// side-effecting tests are the caller's responsibility.
type Group struct {
	name  string
	tests []Test
}

// NewGroup creates a group containing tests in the order given.
// Group names need not be unique.
func NewGroup(name string, tests ...Test) *Group {
	g := &Group{name: name}
	g.Add(tests...)
	return g
}

// Add appends tests to the group, preserving order.
func (g *Group) Add(tests ...Test) {
	g.tests = append(g.tests, tests...)
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Len returns the number of contained tests.
func (g *Group) Len() int { return len(g.tests) }
