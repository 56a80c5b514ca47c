// Package corpus loads the quote collection from YAML.
package corpus

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/quotecards/internal/domain"
)

//go:embed quotes.yaml
var embedded []byte

type document struct {
	Quotes []entry `yaml:"quotes"`
}

type entry struct {
	ID       string   `yaml:"id"`
	Text     string   `yaml:"text"`
	Author   string   `yaml:"author"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
	Source   string   `yaml:"source"`
}

// Load reads the corpus at path, or the embedded corpus when path is empty.
func Load(path string) ([]domain.Quote, error) {
	if path == "" {
		return Parse(embedded)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	return Parse(data)
}

// Parse decodes a corpus document. Entries must have an id, text and author,
// and ids must be unique.
func Parse(data []byte) ([]domain.Quote, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing corpus: %w", err)
	}

	quotes := make([]domain.Quote, 0, len(doc.Quotes))
	seen := make(map[string]struct{}, len(doc.Quotes))

	for i, e := range doc.Quotes {
		q := domain.Quote{
			ID:       strings.TrimSpace(e.ID),
			Text:     strings.TrimSpace(e.Text),
			Author:   strings.TrimSpace(e.Author),
			Category: e.Category,
			Tags:     e.Tags,
			Source:   e.Source,
		}

		if q.ID == "" {
			return nil, domain.NewValidationErrorWithValue(fmt.Sprintf("quotes[%d].id", i), "must not be empty", e.Text)
		}

		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("quotes[%d]: %w", i, err)
		}

		if _, dup := seen[q.ID]; dup {
			return nil, domain.NewConflictErrorWithDetails("quote", "duplicate id", q.ID)
		}

		seen[q.ID] = struct{}{}
		quotes = append(quotes, q)
	}

	return quotes, nil
}

// Fallback is the small built-in corpus used when the configured one cannot be loaded.
func Fallback() []domain.Quote {
	return []domain.Quote{
		{ID: "001", Text: "教育的本质不是传授知识，而是点燃火焰。", Author: "威廉·巴特勒·叶芝", Category: "education"},
		{ID: "002", Text: "学而时习之，不亦说乎？", Author: "孔子", Category: "learning"},
		{ID: "003", Text: "知识就是力量。", Author: "培根", Category: "wisdom"},
		{ID: "004", Text: "教育就是当一个人把在学校所学全部忘光之后剩下的东西。", Author: "爱因斯坦", Category: "education"},
		{ID: "005", Text: "学习的敌人是自己的满足，要认真学习一点东西，必须从不自满开始。", Author: "毛泽东", Category: "learning"},
	}
}
