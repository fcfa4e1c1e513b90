// Package fallback выдаёт шаблонные идеи из встроенного каталога, когда
// ни один провайдер генерации не ответил.
package fallback

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

type template struct {
	Name       string   `yaml:"name"`
	Desc       string   `yaml:"description"`
	Profit     string   `yaml:"estimated_profit"`
	Skills     []string `yaml:"skills"`
	Challenges string   `yaml:"challenges"`
	Link       string   `yaml:"link"`
}

type category struct {
	Keywords []string   `yaml:"keywords"`
	Ideas    []template `yaml:"ideas"`
}

// Catalog набор шаблонов по интересам.
type Catalog struct {
	Categories []category `yaml:"categories"`
	Generic    []template `yaml:"generic"`
}

// Load разбирает встроенный каталог.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse разбирает каталог из YAML.
func Parse(data []byte) (*Catalog, error) {
	const op = "fallback.Parse"

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(c.Generic) < models.IdeasPerBatch {
		return nil, fmt.Errorf("%s: need at least %d generic ideas, got %d", op, models.IdeasPerBatch, len(c.Generic))
	}
	return &c, nil
}

// Ideas подбирает три идеи по интересу и подставляет бюджет и время пользователя.
func (c *Catalog) Ideas(p models.HustleProfile) []models.Idea {
	templates := c.match(p.Interest)

	ideas := make([]models.Idea, 0, models.IdeasPerBatch)
	for _, t := range templates[:models.IdeasPerBatch] {
		ideas = append(ideas, models.Idea{
			Name:                fill(t.Name, p.Interest),
			Description:         fill(t.Desc, p.Interest),
			EstimatedProfit:     t.Profit,
			StartupCost:         "Fits your budget: " + p.Budget,
			TimeCommitment:      p.Time,
			RequiredSkills:      t.Skills,
			PotentialChallenges: t.Challenges,
			LearnMoreLink:       t.Link,
		})
	}
	return ideas
}

func (c *Catalog) match(interest string) []template {
	lower := strings.ToLower(interest)
	for _, cat := range c.Categories {
		if len(cat.Ideas) < models.IdeasPerBatch {
			continue
		}
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat.Ideas
			}
		}
	}
	return c.Generic
}

func fill(s, interest string) string {
	if interest == "" {
		interest = "Your Interest"
	}
	return strings.ReplaceAll(s, "{interest}", interest)
}
