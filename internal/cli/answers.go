package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/questflow/pkg/domain"
)

// ParseAnswers decodes an answer set given inline as JSON/YAML or, with a
// leading '@', read from a file. Empty input is an empty answer set.
func ParseAnswers(input string) (domain.Answers, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.Answers{}, nil
	}

	data := []byte(input)
	if path, ok := strings.CutPrefix(input, "@"); ok {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read answers: %w", err)
		}
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}
	return domain.AnswersFromMap(m), nil
}
