package ephem

import (
	"fmt"

	"github.com/litescript/ls-ephemeris/internal/timescale"
)

// DecodeFunc resolves a body name to its id.
type DecodeFunc func(name string) (BodyID, error)

// Catalog binds a segment registry to a name decoder and hands out
// bodies. Catalogs are cheap views; kernels build them.
type Catalog struct {
	registry *Registry
	decode   DecodeFunc
}

// NewCatalog wraps a registry with a name decoder. decode may be nil
// for catalogs addressed by id only.
func NewCatalog(reg *Registry, decode DecodeFunc) *Catalog {
	return &Catalog{registry: reg, decode: decode}
}

// Registry exposes the catalog's segment registry.
func (c *Catalog) Registry() *Registry {
	return c.registry
}

// Body looks up a body by name.
func (c *Catalog) Body(name string) (*Body, error) {
	if c.decode == nil {
		return nil, fmt.Errorf("catalog decodes no names, %q: %w", name, ErrUnknownBody)
	}
	id, err := c.decode(name)
	if err != nil {
		return nil, err
	}
	return c.BodyByID(id), nil
}

// BodyByID wraps a raw body id. Whether the registry can place the
// body is checked when positions are computed, not here.
func (c *Catalog) BodyByID(id BodyID) *Body {
	return &Body{id: id, registry: c.registry}
}

// SurfaceBody extends the catalog's registry with a surface-fixed
// observer segment and returns the observer as a body carrying its
// rotation capability. The catalog itself is left untouched.
func (c *Catalog) SurfaceBody(seg *Segment, rot RotationProvider) (*Body, error) {
	ext, err := c.registry.With(seg)
	if err != nil {
		return nil, err
	}
	return &Body{id: seg.Target, registry: ext, rotation: rot}, nil
}

// Body is one body bound to the registry that places it.
type Body struct {
	id       BodyID
	registry *Registry
	rotation RotationProvider // nil when the body carries no frame
}

// ID returns the body identifier.
func (b *Body) ID() BodyID {
	return b.id
}

// At returns the body's barycentric state at an instant. The body's
// chain must reach the barycenter.
func (b *Body) At(t timescale.Time) (State, error) {
	chain, root, err := b.registry.ChainTo(b.id)
	if err != nil {
		return State{}, err
	}
	if root != Barycenter {
		return State{}, fmt.Errorf("body %d does not reach the barycenter: %w", b.id, ErrUnknownBody)
	}
	pos, vel := tally(nil, chain, t)
	return State{Position: pos, Velocity: vel, Time: t, Class: ClassBarycentric}, nil
}

// mergedRegistry returns a registry placing both bodies, merging when
// they come from different catalogs.
func mergedRegistry(a, b *Body) (*Registry, error) {
	if a.registry == b.registry {
		return a.registry, nil
	}
	return a.registry.Merge(b.registry)
}

// rootedChains resolves both bodies' full chains and requires each to
// reach the barycenter.
func rootedChains(reg *Registry, center, target BodyID) (minus, plus Chain, err error) {
	minus, centerRoot, err := reg.ChainTo(center)
	if err != nil {
		return nil, nil, err
	}
	plus, targetRoot, err := reg.ChainTo(target)
	if err != nil {
		return nil, nil, err
	}
	if centerRoot != Barycenter || targetRoot != Barycenter {
		return nil, nil, fmt.Errorf("bodies %d and %d root at %d and %d: %w",
			center, target, centerRoot, targetRoot, ErrNoCommonCenter)
	}
	return minus, plus, nil
}
