package config

// Merge deep-merges overlay into a copy of base and returns the result.
// Neither argument is modified.
//
// Per key of overlay:
//   - a Tree is merged recursively, starting from an empty mapping when base
//     has no mapping at that key;
//   - a Sequence is appended to the base sequence (or to an empty one). It is
//     never replaced, so merging the same overlay twice repeats its elements;
//   - a Scalar replaces whatever base holds, whatever its type.
//
// Keys present only in base are kept unchanged.
func Merge(base, overlay Tree) Tree {
	out := base.Clone()
	if out == nil {
		out = Tree{}
	}
	mergeInto(out, overlay)
	return out
}

// MergeAll folds Merge over layers in order; later layers win.
func MergeAll(layers ...Tree) Tree {
	out := Tree{}
	for _, layer := range layers {
		out = Merge(out, layer)
	}
	return out
}

// mergeInto mutates dst, which must be exclusively owned by the caller.
func mergeInto(dst, src Tree) {
	for key, v := range src {
		switch ov := v.(type) {
		case Tree:
			sub, ok := dst[key].(Tree)
			if !ok || sub == nil {
				sub = Tree{}
			}
			mergeInto(sub, ov)
			dst[key] = sub
		case Sequence:
			existing, _ := dst[key].(Sequence)
			merged := make(Sequence, 0, len(existing)+len(ov))
			merged = append(merged, existing...)
			merged = append(merged, ov.clone()...)
			dst[key] = merged
		case Scalar:
			dst[key] = ov
		default:
			dst[key] = Null()
		}
	}
}

// ReadAuto returns a copy of the "auto" subtree, or an empty mapping when it
// is missing or not a mapping.
func ReadAuto(tree Tree) Tree {
	auto := tree.Subtree(KeyAuto)
	if auto == nil {
		return Tree{}
	}
	return auto.Clone()
}
