package merge

import (
	"fmt"

	"github.com/magic-gear/calcifer/internal/value"
)

// Conflict records a dependency whose requested version was replaced.
type Conflict struct {
	Name string
	From string
	To   string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: %s -> %s", c.Name, c.From, c.To)
}

// Dependencies merges a name to version-range map into existing. The later
// writer wins; every name whose range changed is reported as a Conflict.
// Neither operand is modified.
func Dependencies(existing, incoming *value.Object) (*value.Object, []Conflict) {
	out := existing.Clone()
	if out == nil {
		out = value.NewObject()
	}

	var conflicts []Conflict
	for _, name := range incoming.Keys() {
		to, _ := incoming.Get(name)
		from, ok := out.Get(name)
		if ok && value.Equal(from, to) {
			continue
		}
		if ok {
			conflicts = append(conflicts, Conflict{Name: name, From: fmt.Sprint(from), To: fmt.Sprint(to)})
		}
		out.Set(name, to)
	}
	return out, conflicts
}
