package ephem

import (
	"fmt"
	"sort"
)

// Registry indexes segments by target body. Each body has at most one
// segment computing it, so the segments form a forest with parent
// pointers running center-ward. A registry is immutable once built;
// With and Merge derive extended copies.
type Registry struct {
	segments map[BodyID]*Segment
}

// NewRegistry builds a registry from segments. Two distinct segments
// claiming the same target make the graph malformed.
func NewRegistry(segs ...*Segment) (*Registry, error) {
	r := &Registry{segments: make(map[BodyID]*Segment, len(segs))}
	if err := r.add(segs); err != nil {
		return nil, err
	}
	return r, nil
}

// With returns a copy of the registry extended by the given segments,
// under the same conflict policy. The receiver is left untouched.
func (r *Registry) With(segs ...*Segment) (*Registry, error) {
	out := &Registry{segments: make(map[BodyID]*Segment, len(r.segments)+len(segs))}
	for id, s := range r.segments {
		out.segments[id] = s
	}
	if err := out.add(segs); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge returns the union of two registries. The same segment pointer
// appearing on both sides is not a conflict; two distinct segments for
// one target is.
func (r *Registry) Merge(other *Registry) (*Registry, error) {
	return r.With(other.Segments()...)
}

func (r *Registry) add(segs []*Segment) error {
	for _, s := range segs {
		if have, ok := r.segments[s.Target]; ok {
			if have == s {
				continue
			}
			return fmt.Errorf("two segments claim target %d: %w", s.Target, ErrMalformedSegmentGraph)
		}
		r.segments[s.Target] = s
	}
	return nil
}

// Len returns the number of registered segments.
func (r *Registry) Len() int {
	return len(r.segments)
}

// Segments returns the registered segments ordered by target id.
func (r *Registry) Segments() []*Segment {
	out := make([]*Segment, 0, len(r.segments))
	for _, s := range r.segments {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Target < out[j].Target })
	return out
}

// ChainTo resolves the chain of segments leading from the forest root
// down to target, along with the root id the walk stopped at. A body
// with no segment is its own root. A walk that revisits a segment
// cannot terminate, so exceeding the registry size reports a cycle.
func (r *Registry) ChainTo(target BodyID) (Chain, BodyID, error) {
	chain := make(Chain, 0, 8)
	body := target
	for {
		seg, ok := r.segments[body]
		if !ok {
			break
		}
		if len(chain) == len(r.segments) {
			return nil, 0, fmt.Errorf("no root reachable from body %d: %w", target, ErrMalformedSegmentGraph)
		}
		chain = append(chain, seg)
		body = seg.Center
	}
	// The walk collects target first; callers read chains root first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, body, nil
}
