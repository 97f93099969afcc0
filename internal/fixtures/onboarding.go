package fixtures

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/onboarding"
)

//go:embed onboarding_steps.yaml
var onboardingStepsYAML []byte

type onboardingFile struct {
	Steps []onboarding.StepTemplate `yaml:"steps"`
}

// OnboardingSteps returns the embedded checklist template ordered by step order.
func OnboardingSteps() ([]onboarding.StepTemplate, error) {
	return ParseOnboardingSteps(onboardingStepsYAML)
}

func ParseOnboardingSteps(data []byte) ([]onboarding.StepTemplate, error) {
	var file onboardingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse onboarding steps: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("onboarding steps template is empty")
	}

	seen := make(map[int]bool, len(file.Steps))
	for _, s := range file.Steps {
		if s.Title == "" {
			return nil, fmt.Errorf("onboarding step %d has no title", s.Order)
		}
		if seen[s.Order] {
			return nil, fmt.Errorf("duplicate onboarding step order %d", s.Order)
		}
		seen[s.Order] = true
	}

	sort.Slice(file.Steps, func(i, j int) bool { return file.Steps[i].Order < file.Steps[j].Order })
	return file.Steps, nil
}
