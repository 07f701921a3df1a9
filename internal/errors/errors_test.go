package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogError_Predicates(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		check   func(error) bool
	}{
		{"not found", NotFound("snapshots/a.json"), ErrorTypeNotFound, IsNotFound},
		{"invalid format", InvalidFormat("a.json", "missing required key data_view_id"), ErrorTypeInvalidFormat, IsInvalidFormat},
		{"permission denied", PermissionDenied("write", "/etc/snap.json"), ErrorTypePermission, IsPermissionDenied},
		{"ambiguous name", AmbiguousName("Web Analytics", []string{"dv1", "dv2"}), ErrorTypeAmbiguousName, IsAmbiguousName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, IsType(tt.err, tt.errType))

			// Predicates are exclusive across the taxonomy.
			for _, other := range tests {
				if other.errType != tt.errType {
					assert.False(t, IsType(tt.err, other.errType))
				}
			}
		})
	}
}

func TestCatalogError_PredicatesOnPlainErrors(t *testing.T) {
	err := fmt.Errorf("plain error")
	assert.False(t, IsNotFound(err))
	assert.False(t, IsAmbiguousName(err))
	assert.False(t, IsNotFound(nil))
}

func TestCatalogError_WrappedStillMatches(t *testing.T) {
	wrapped := fmt.Errorf("loading baseline: %w", NotFound("a.json"))
	assert.True(t, IsNotFound(wrapped))
}

func TestAmbiguousName_CarriesCandidates(t *testing.T) {
	err := AmbiguousName("Web Analytics", []string{"dv1", "dv2"})

	assert.Contains(t, err.Error(), "ambiguous name: Web Analytics")
	assert.Contains(t, err.Error(), "dv1")
	assert.Contains(t, err.Error(), "dv2")
	assert.Equal(t, []string{"dv1", "dv2"}, err.Candidates)
}

func TestCatalogError_Builders(t *testing.T) {
	err := New(ErrorTypeInvalidFormat, "bad snapshot").
		WithCause("truncated file").
		WithSolutions("Re-export the snapshot")

	assert.Contains(t, err.Error(), "bad snapshot")
	assert.Contains(t, err.Error(), "truncated file")
	assert.Equal(t, []string{"Re-export the snapshot"}, err.Solutions)
	assert.Contains(t, fmt.Sprintf("%+v", err), "[InvalidFormat]")
}
