package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/volunteer-hub/internal/models"
)

// opportunitySnapshot is a static copy of the directory bundled into the
// binary. It serves listings in local mode and when the backend read fails.
//
//go:embed opportunities_snapshot.json
var opportunitySnapshot []byte

// LoadSnapshotOpportunities decodes the bundled opportunity snapshot.
func LoadSnapshotOpportunities() ([]*models.Opportunity, error) {
	var opps []*models.Opportunity
	if err := json.Unmarshal(opportunitySnapshot, &opps); err != nil {
		return nil, fmt.Errorf("failed to decode opportunity snapshot: %w", err)
	}
	return opps, nil
}
