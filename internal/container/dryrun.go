package container

import "snapkeep/internal/snap"

// DryRunContainer turns archive creation and extraction into no-ops for
// simulated runs.
type DryRunContainer struct{}

// NewDryRunContainer creates a no-op container.
func NewDryRunContainer() *DryRunContainer {
	return &DryRunContainer{}
}

func (*DryRunContainer) Create(string, string, snap.CompressionHint) error { return nil }

func (*DryRunContainer) Extract(string, string) error { return nil }

var _ snap.Container = (*DryRunContainer)(nil)
