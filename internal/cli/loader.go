package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/okian/banquet/internal/adapters/repository"
	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/rules"
)

// loadRuleSet returns the normalized rule set stored in path, or the
// built-in defaults when path is empty.
func loadRuleSet(path string) (rules.RuleSet, error) {
	if path == "" {
		return rules.Defaults(), nil
	}
	doc, err := repository.LoadRulesFile(path)
	if err != nil {
		return rules.RuleSet{}, err
	}
	return rules.Normalize(doc), nil
}

// loadBooking decodes one EventInput from path, or from stdin when path is "-".
func loadBooking(path string, stdin io.Reader) (model.EventInput, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.EventInput{}, fmt.Errorf("read booking: %w", err)
	}

	var in model.EventInput
	if err := json.Unmarshal(data, &in); err != nil {
		return model.EventInput{}, fmt.Errorf("decode booking: %w", err)
	}
	return in, nil
}
