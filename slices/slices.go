package slices

func Copy[T any](src []T) []T {
	if src == nil {
		return nil
	}

	dst := make([]T, len(src))
	copy(dst, src)

	return dst
}

// Intersect returns the entries that are present in both slices, in
// the order they appear in a.
func Intersect[T comparable](a, b []T) []T {
	intersection := []T{}

	bMap := map[T]struct{}{}
	for _, e := range b {
		bMap[e] = struct{}{}
	}

	for _, e := range a {
		if _, ok := bMap[e]; ok {
			intersection = append(intersection, e)
			delete(bMap, e)
		}
	}

	return intersection
}
