package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	facultyModel "uniportal_backend/internals/features/academics/faculties/model"
)

func intPtr(n int) *int { return &n }

func TestEffectiveFormFee(t *testing.T) {
	tests := []struct {
		name     string
		program  facultyModel.ProgramModel
		snapshot FeeSnapshot
		want     int
	}{
		{
			name: "program override wins over global",
			program: facultyModel.ProgramModel{
				ProgramFormFee:           intPtr(7500),
				ProgramUseDefaultFormFee: false,
			},
			snapshot: FeeSnapshot{FormAmount: intPtr(6000)},
			want:     7500,
		},
		{
			name: "use_default flag ignores program fee",
			program: facultyModel.ProgramModel{
				ProgramFormFee:           intPtr(7500),
				ProgramUseDefaultFormFee: true,
			},
			snapshot: FeeSnapshot{FormAmount: intPtr(6000)},
			want:     6000,
		},
		{
			name:     "global setting when program has nothing",
			program:  facultyModel.ProgramModel{ProgramUseDefaultFormFee: true},
			snapshot: FeeSnapshot{FormAmount: intPtr(6000)},
			want:     6000,
		},
		{
			name:     "hardcoded fallback when nothing configured",
			program:  facultyModel.ProgramModel{ProgramUseDefaultFormFee: true},
			snapshot: FeeSnapshot{},
			want:     DefaultFormAmount,
		},
		{
			name: "nil program fee with flag off still falls through",
			program: facultyModel.ProgramModel{
				ProgramUseDefaultFormFee: false,
			},
			snapshot: FeeSnapshot{FormAmount: intPtr(6000)},
			want:     6000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveFormFee(tt.program, tt.snapshot))
		})
	}
}

func TestEffectiveAcceptanceFee(t *testing.T) {
	prog := &facultyModel.ProgramModel{ProgramAcceptanceFee: intPtr(20000)}

	t.Run("explicit beats program and global", func(t *testing.T) {
		got, err := EffectiveAcceptanceFee(intPtr(15000), prog, FeeSnapshot{AcceptanceFee: intPtr(30000)})
		require.NoError(t, err)
		assert.Equal(t, 15000, got)
	})

	t.Run("program beats global", func(t *testing.T) {
		got, err := EffectiveAcceptanceFee(nil, prog, FeeSnapshot{AcceptanceFee: intPtr(30000)})
		require.NoError(t, err)
		assert.Equal(t, 20000, got)
	})

	t.Run("global when program silent", func(t *testing.T) {
		got, err := EffectiveAcceptanceFee(nil, &facultyModel.ProgramModel{}, FeeSnapshot{AcceptanceFee: intPtr(30000)})
		require.NoError(t, err)
		assert.Equal(t, 30000, got)
	})

	t.Run("nil program falls back to global", func(t *testing.T) {
		got, err := EffectiveAcceptanceFee(nil, nil, FeeSnapshot{AcceptanceFee: intPtr(30000)})
		require.NoError(t, err)
		assert.Equal(t, 30000, got)
	})

	t.Run("nothing configured is an error", func(t *testing.T) {
		_, err := EffectiveAcceptanceFee(nil, &facultyModel.ProgramModel{}, FeeSnapshot{})
		assert.ErrorIs(t, err, ErrFeeNotConfigured)
	})
}
