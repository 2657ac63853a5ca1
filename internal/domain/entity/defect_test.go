package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerdict_DefectFreeIgnoresCase(t *testing.T) {
	for _, label := range []Label{"Defect Free", "DEFECT FREE", "defect free", "dEfEcT fReE"} {
		v := NewVerdict(label)
		require.True(t, v.Passed, "label %q", label)
		require.Empty(t, v.AnomalyType())
		require.Equal(t, "100%", v.SurfaceIntegrity())
	}
}

func TestVerdict_DefectIsUppercased(t *testing.T) {
	v := NewVerdict("hole")
	require.False(t, v.Passed)
	require.Equal(t, "HOLE", v.AnomalyType())
	require.Equal(t, "Critical", v.SurfaceIntegrity())

	v = NewVerdict("Vertical Line")
	require.False(t, v.Passed)
	require.Equal(t, "VERTICAL LINE", v.AnomalyType())
}

func TestVerdict_NearMissesFail(t *testing.T) {
	for _, label := range []Label{"defect-free", " defect free", "defectfree", ""} {
		require.False(t, NewVerdict(label).Passed, "label %q", label)
	}
}
