package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingSteps_Embedded(t *testing.T) {
	steps, err := OnboardingSteps()
	require.NoError(t, err)
	require.Len(t, steps, 5)

	for i, s := range steps {
		assert.Equal(t, i+1, s.Order)
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Description)
	}
}

func TestParseOnboardingSteps(t *testing.T) {
	steps, err := ParseOnboardingSteps([]byte(`
steps:
  - {order: 2, title: B}
  - {order: 1, title: A}
`))
	require.NoError(t, err)
	assert.Equal(t, "A", steps[0].Title)
	assert.Equal(t, "B", steps[1].Title)

	_, err = ParseOnboardingSteps([]byte(`steps: []`))
	assert.Error(t, err)

	_, err = ParseOnboardingSteps([]byte(`
steps:
  - {order: 1, title: A}
  - {order: 1, title: B}
`))
	assert.Error(t, err)

	_, err = ParseOnboardingSteps([]byte(`
steps:
  - {order: 1}
`))
	assert.Error(t, err)

	_, err = ParseOnboardingSteps([]byte(`steps: [`))
	assert.Error(t, err)
}
