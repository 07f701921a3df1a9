package differ

import (
	"fmt"

	"github.com/metriclens/metriclens/pkg/types"
)

// Breaking-change kinds and severities.
const (
	BreakingChangeRemoved     = "removed"
	BreakingChangeTypeChanged = "type_changed"

	SeverityHigh = "high"
)

// BreakingChange is a single backward-incompatible finding.
type BreakingChange struct {
	ComponentID   string `json:"component_id"`
	ComponentType string `json:"component_type"`
	ChangeType    string `json:"change_type"`
	Severity      string `json:"severity"`
	Details       string `json:"details"`
}

// DetectBreakingChanges classifies the backward-incompatible changes in a
// diff result. Every removed component is breaking, and every modified
// component whose changed fields include "type" is breaking, regardless of
// what else changed. The function is pure; calling it repeatedly on the same
// result yields the same findings in the same order (metrics first, then
// dimensions, in diff order).
func DetectBreakingChanges(result *types.DiffResult) []BreakingChange {
	var findings []BreakingChange
	findings = append(findings, detectInCategory(result.MetricDiffs, "metric")...)
	findings = append(findings, detectInCategory(result.DimensionDiffs, "dimension")...)
	return findings
}

func detectInCategory(diffs []types.ComponentDiff, componentType string) []BreakingChange {
	var findings []BreakingChange
	for _, d := range diffs {
		switch d.ChangeType {
		case types.ChangeTypeRemoved:
			findings = append(findings, BreakingChange{
				ComponentID:   d.ID,
				ComponentType: componentType,
				ChangeType:    BreakingChangeRemoved,
				Severity:      SeverityHigh,
				Details:       fmt.Sprintf("%s %q was removed", componentType, d.ID),
			})
		case types.ChangeTypeModified:
			change, ok := d.ChangedFields["type"]
			if !ok {
				continue
			}
			findings = append(findings, BreakingChange{
				ComponentID:   d.ID,
				ComponentType: componentType,
				ChangeType:    BreakingChangeTypeChanged,
				Severity:      SeverityHigh,
				Details:       fmt.Sprintf("%s %q type changed from %v to %v", componentType, d.ID, change.Old, change.New),
			})
		}
	}
	return findings
}
