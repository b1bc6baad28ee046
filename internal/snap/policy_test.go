package snap_test

import (
	"testing"
	"time"

	"snapkeep/internal/snap"
)

func TestRetentionPolicyValidate(t *testing.T) {
	day := 24 * time.Hour
	cases := []struct {
		name    string
		policy  snap.RetentionPolicy
		wantErr bool
	}{
		{"zero value", snap.RetentionPolicy{}, false},
		{"defaults", snap.RetentionPolicy{MaxAge: 400 * day, TrustedAge: 90 * day}, false},
		{"pruning without trust window", snap.RetentionPolicy{MaxAge: 400 * day}, false},
		{"trust window without pruning", snap.RetentionPolicy{TrustedAge: 90 * day}, false},
		{"negative max age", snap.RetentionPolicy{MaxAge: -day}, true},
		{"negative trusted age", snap.RetentionPolicy{TrustedAge: -day}, true},
		{"trusted equals max", snap.RetentionPolicy{MaxAge: 90 * day, TrustedAge: 90 * day}, true},
		{"trusted above max", snap.RetentionPolicy{MaxAge: 90 * day, TrustedAge: 400 * day}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.policy.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRetentionPolicyCutoffsAt(t *testing.T) {
	day := 24 * time.Hour
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("both windows set", func(t *testing.T) {
		p := snap.RetentionPolicy{MaxAge: 400 * day, TrustedAge: 90 * day}
		deleteBefore, trustedBefore := p.CutoffsAt(now)
		if want := now.Add(-400 * day); !deleteBefore.Equal(want) {
			t.Errorf("deleteBefore = %v, want %v", deleteBefore, want)
		}
		if want := now.Add(-90 * day); !trustedBefore.Equal(want) {
			t.Errorf("trustedBefore = %v, want %v", trustedBefore, want)
		}
	})

	t.Run("zero windows stay zero", func(t *testing.T) {
		deleteBefore, trustedBefore := snap.RetentionPolicy{}.CutoffsAt(now)
		if !deleteBefore.IsZero() {
			t.Errorf("deleteBefore = %v, want zero", deleteBefore)
		}
		if !trustedBefore.IsZero() {
			t.Errorf("trustedBefore = %v, want zero", trustedBefore)
		}
	})
}
