package reconcile

import "media-manager/core/asset"

// Plan is the outcome of reconciling one edit.
type Plan struct {
	// Final is the ordered reference list the record holds after the edit.
	Final []asset.Reference
	// ToRemove lists previous references the edit dropped, in their previous order.
	ToRemove []asset.Reference
	// Rejected lists client-retained references the record never held.
	Rejected []asset.Reference
}

// Reconcile computes the reference list of an edited record.
//
// retained is trusted only where it agrees with previous: entries the record never held
// are rejected, and duplicates collapse to their first occurrence. The final list is the
// surviving retained entries in client order followed by uploaded. ToRemove is every
// previous reference missing from the surviving retained entries.
func Reconcile(previous, retained, uploaded []asset.Reference) Plan {
	owned := make(map[asset.Reference]struct{}, len(previous))
	for _, ref := range previous {
		owned[ref] = struct{}{}
	}

	kept := make(map[asset.Reference]struct{}, len(retained))
	plan := Plan{
		Final: make([]asset.Reference, 0, len(retained)+len(uploaded)),
	}

	for _, ref := range retained {
		if _, ok := owned[ref]; !ok {
			plan.Rejected = append(plan.Rejected, ref)
			continue
		}
		if _, dup := kept[ref]; dup {
			continue
		}
		kept[ref] = struct{}{}
		plan.Final = append(plan.Final, ref)
	}
	plan.Final = append(plan.Final, uploaded...)

	removed := make(map[asset.Reference]struct{})
	for _, ref := range previous {
		if _, ok := kept[ref]; ok {
			continue
		}
		if _, dup := removed[ref]; dup {
			continue
		}
		removed[ref] = struct{}{}
		plan.ToRemove = append(plan.ToRemove, ref)
	}

	return plan
}
