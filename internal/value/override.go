package value

// OverrideMode selects how Override merges source keys into target.
type OverrideMode int

const (
	// All overwrites/creates target[k] for every key k in source.
	All OverrideMode = iota
	// OnlyExisting overwrites target[k] only if k already exists in target.
	OnlyExisting
	// OnlyNonExisting inserts target[k] only if k does not already exist.
	OnlyNonExisting
)

// Override implements override_items(target, source, mode): the single
// merge primitive used at every scope boundary in the engine. It
// mutates target and returns it for convenience.
//
// Call-site policy: subtree entry uses All; loop-iteration
// backup/restore uses OnlyExisting; blossom-group defaults flow into a
// contained blossom's values as OnlyNonExisting; post-blossom merge back
// into the parent scope uses OnlyExisting.
func Override(target, source Scope, mode OverrideMode) Scope {
	for k, v := range source {
		switch mode {
		case All:
			target[k] = v.Clone()
		case OnlyExisting:
			if _, ok := target[k]; ok {
				target[k] = v.Clone()
			}
		case OnlyNonExisting:
			if _, ok := target[k]; !ok {
				target[k] = v.Clone()
			}
		}
	}
	return target
}
