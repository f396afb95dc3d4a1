package ecs

// IntersectEntities returns entities present in both sets, in the dense order
// of the smaller set.
func IntersectEntities(a, b *SparseSet) []Entity {
	if a == nil || b == nil {
		return nil
	}
	// iterate smaller set
	if len(a.denseEntities) > len(b.denseEntities) {
		a, b = b, a
	}
	out := make([]Entity, 0, len(a.denseEntities))
	for _, e := range a.denseEntities {
		if b.Has(e) {
			out = append(out, e)
		}
	}
	return out
}
