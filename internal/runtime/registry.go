package runtime

import (
	"slices"
	"strings"
	"unicode"

	"github.com/aretw0/gensyn/pkg/domain"
)

func (g *Graph) register(t domain.GateType) error {
	if t.Class == "" {
		return domain.NewError("register", "", domain.ErrInvalidArgument, "gate type has no class")
	}
	if _, ok := g.catalog[t.Class]; ok {
		return domain.NewError("register", "", domain.ErrDuplicateName, "gate type %q is already registered", t.Class)
	}
	g.catalog[t.Class] = t
	g.classes = append(g.classes, t.Class)
	return nil
}

// validName rejects empty names and names a line-oriented command host could not address.
func validName(name string) bool {
	return name != "" && !strings.ContainsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
}

// Add registers a new gate of the given class.
func (g *Graph) Add(class, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(class, name)
}

func (g *Graph) add(class, name string) error {
	if class == "" {
		return domain.NewError("add", name, domain.ErrInvalidArgument, "gate type is empty")
	}
	if !validName(name) {
		return domain.NewError("add", name, domain.ErrInvalidArgument, "gate name must be non-empty and contain no whitespace")
	}
	if _, ok := g.gates[name]; ok {
		return domain.NewError("add", name, domain.ErrDuplicateName, "a gate with this name already exists")
	}
	t, ok := g.catalog[class]
	if !ok {
		return domain.NewError("add", name, domain.ErrUnknownType, "%q is not a registered gate type", class)
	}

	g.gates[name] = &gate{name: name, typ: t, params: make(map[string]string)}
	g.order = append(g.order, name)
	return nil
}

// Check fails with NotFound when name does not refer to a gate.
func (g *Graph) Check(name string) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, err := g.lookup("check", name)
	return err
}

// Class returns the type class of a gate.
func (g *Graph) Class(name string) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	gt, err := g.lookup("get", name)
	if err != nil {
		return "", err
	}
	return gt.typ.Class, nil
}

func (g *Graph) lookup(op, name string) (*gate, error) {
	gt, ok := g.gates[name]
	if !ok {
		return nil, domain.NewError(op, name, domain.ErrNotFound, "does not refer to a gate")
	}
	return gt, nil
}

// Remove severs every edge touching the gate and deletes it.
// It reports whether the gate existed; removing an unknown gate is a no-op.
func (g *Graph) Remove(name string) (removed []domain.Connection, existed bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.gates[name]; !ok {
		return nil, false
	}
	removed = g.disconnectAll(name)
	delete(g.gates, name)
	g.order = slices.DeleteFunc(g.order, func(n string) bool { return n == name })
	return removed, true
}

// List returns the gate names in creation order.
func (g *Graph) List() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.order)
}

// Len returns the number of registered gates.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Types returns the catalog in registration order.
func (g *Graph) Types() []domain.GateType {
	g.mu.RLock()
	defer g.mu.RUnlock()
	types := make([]domain.GateType, 0, len(g.classes))
	for _, c := range g.classes {
		types = append(types, g.catalog[c])
	}
	return types
}

// Type looks up a gate type by class.
func (g *Graph) Type(class string) (domain.GateType, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.catalog[class]
	return t, ok
}
