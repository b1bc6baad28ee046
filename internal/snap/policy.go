package snap

import (
	"fmt"
	"time"
)

// RetentionPolicy bounds how long archive versions are kept. A zero MaxAge
// disables pruning entirely; a zero TrustedAge treats every version as
// trusted. The policy is an immutable value, validated once before any
// filesystem mutation and passed into the service.
type RetentionPolicy struct {
	MaxAge     time.Duration
	TrustedAge time.Duration
}

// Validate rejects contradictory policies.
func (p RetentionPolicy) Validate() error {
	if p.MaxAge < 0 || p.TrustedAge < 0 {
		return fmt.Errorf("retention ages must not be negative")
	}
	if p.MaxAge != 0 && p.TrustedAge != 0 && p.TrustedAge >= p.MaxAge {
		return fmt.Errorf("trusted age (%s) must be less than max age (%s)", p.TrustedAge, p.MaxAge)
	}
	return nil
}

// CutoffsAt derives the deletion and trust thresholds for a run starting at
// now. A zero deleteBefore means nothing is ever deleted; a zero
// trustedBefore means every version is trusted.
func (p RetentionPolicy) CutoffsAt(now time.Time) (deleteBefore, trustedBefore time.Time) {
	if p.MaxAge != 0 {
		deleteBefore = now.Add(-p.MaxAge)
	}
	if p.TrustedAge != 0 {
		trustedBefore = now.Add(-p.TrustedAge)
	}
	return deleteBefore, trustedBefore
}
