package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkeye/Pointing/internal/domain"
)

func TestConsensus(t *testing.T) {
	dev := domain.RoleDeveloper
	tests := []struct {
		name  string
		votes map[string]string
		roles map[string]domain.Role
		want  []float64
	}{
		{
			name:  "single winner",
			votes: map[string]string{"A": "5", "B": "5", "C": "8"},
			roles: map[string]domain.Role{"A": dev, "B": dev, "C": dev},
			want:  []float64{5},
		},
		{
			name:  "tie returns all ascending",
			votes: map[string]string{"A": "5", "B": "3"},
			roles: map[string]domain.Role{"A": dev, "B": dev},
			want:  []float64{3, 5},
		},
		{
			name:  "no votes",
			votes: map[string]string{},
			roles: map[string]domain.Role{"A": dev},
			want:  []float64{},
		},
		{
			name:  "non numeric cards ignored",
			votes: map[string]string{"A": "?", "B": "☕", "C": "13"},
			roles: map[string]domain.Role{"A": dev, "B": dev, "C": dev},
			want:  []float64{13},
		},
		{
			name:  "only non numeric",
			votes: map[string]string{"A": "?"},
			roles: map[string]domain.Role{"A": dev},
			want:  []float64{},
		},
		{
			name:  "fractions",
			votes: map[string]string{"A": "0.5", "B": "0.5", "C": "1"},
			roles: map[string]domain.Role{"A": dev, "B": dev, "C": dev},
			want:  []float64{0.5},
		},
		{
			name:  "votes of other roles are not counted",
			votes: map[string]string{"A": "3", "PO": "8", "SM": "8"},
			roles: map[string]domain.Role{"A": dev, "PO": domain.RoleProductOwner, "SM": domain.RoleScrumMaster},
			want:  []float64{3},
		},
		{
			name:  "NaN and Inf are not numbers here",
			votes: map[string]string{"A": "NaN", "B": "Inf", "C": "2"},
			roles: map[string]domain.Role{"A": dev, "B": dev, "C": dev},
			want:  []float64{2},
		},
		{
			name:  "hex floats and exponents are labels",
			votes: map[string]string{"A": "0x1p3", "B": "1e1", "C": "+3", "D": "1_0", "E": "3"},
			roles: map[string]domain.Role{"A": dev, "B": dev, "C": dev, "D": dev, "E": dev},
			want:  []float64{3},
		},
		{
			name:  "decimal spellings of one value agree",
			votes: map[string]string{"A": "5", "B": "5.0", "C": " 5. ", "D": ".5"},
			roles: map[string]domain.Role{"A": dev, "B": dev, "C": dev, "D": dev},
			want:  []float64{5},
		},
		{
			name:  "three way tie",
			votes: map[string]string{"A": "8", "B": "1", "C": "3"},
			roles: map[string]domain.Role{"A": dev, "B": dev, "C": dev},
			want:  []float64{1, 3, 8},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Consensus(tc.votes, tc.roles)
			assert.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}
