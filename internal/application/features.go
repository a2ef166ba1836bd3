package application

// NormalizeFeatureSet applies the write-boundary policy rules to a submitted
// feature set:
//
//   - MaxEventCapacity is clamped to a minimum of 1 and MaxPlusOnes to a
//     minimum of 0, whatever the caller submitted.
//   - AllowFamilyHeadcount is forced on whenever AllowPlusOnes is on. The
//     flag is derived, not independently settable, so the invariant holds for
//     any caller rather than only for well-behaved UIs.
func NormalizeFeatureSet(features FeatureSet) FeatureSet {
	normalized := features

	if normalized.MaxEventCapacity < 1 {
		normalized.MaxEventCapacity = 1
	}
	if normalized.MaxPlusOnes < 0 {
		normalized.MaxPlusOnes = 0
	}
	if normalized.AllowPlusOnes {
		normalized.AllowFamilyHeadcount = true
	}

	return normalized
}

// PartySize computes the headcount a guest contributes under the event's
// active feature flags: the guest themselves (or their family headcount when
// enabled) plus any allowed plus-ones.
func PartySize(guest Guest, features FeatureSet) int {
	size := 1
	if features.AllowFamilyHeadcount {
		adults := guest.Adults
		if adults < 1 {
			adults = 1
		}
		children := guest.Children
		if children < 0 {
			children = 0
		}
		size = adults + children
	}
	if features.AllowPlusOnes && guest.PlusOnes > 0 {
		size += guest.PlusOnes
	}
	return size
}
