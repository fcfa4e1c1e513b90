package generation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

const (
	defaultDescription = "A flexible side hustle that fits your profile."
	defaultProfit      = "Varies"
	defaultCost        = "Varies"
	defaultTime        = "Flexible"
	defaultChallenges  = "Results depend on market demand and consistent effort."
	defaultSkill       = "Self-motivation"
	searchURL          = "https://www.google.com/search?q="
)

// Normalize дополняет поля идей значениями по умолчанию и оставляет ровно
// models.IdeasPerBatch штук. Идеи без названия и описания отбрасываются;
// если после этого идей меньше нужного, возвращается ErrTooFewIdeas.
func Normalize(ideas []models.Idea) ([]models.Idea, error) {
	out := make([]models.Idea, 0, models.IdeasPerBatch)
	for _, idea := range ideas {
		if len(out) == models.IdeasPerBatch {
			break
		}
		if strings.TrimSpace(idea.Name) == "" && strings.TrimSpace(idea.Description) == "" {
			continue
		}
		out = append(out, normalizeIdea(idea, len(out)+1))
	}
	if len(out) < models.IdeasPerBatch {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrTooFewIdeas, len(out), models.IdeasPerBatch)
	}
	return out, nil
}

func normalizeIdea(idea models.Idea, n int) models.Idea {
	idea.Name = orDefault(idea.Name, fmt.Sprintf("Side Hustle Idea #%d", n))
	idea.Description = orDefault(idea.Description, defaultDescription)
	idea.EstimatedProfit = orDefault(idea.EstimatedProfit, defaultProfit)
	idea.StartupCost = orDefault(idea.StartupCost, defaultCost)
	idea.TimeCommitment = orDefault(idea.TimeCommitment, defaultTime)
	idea.PotentialChallenges = orDefault(idea.PotentialChallenges, defaultChallenges)

	skills := make([]string, 0, len(idea.RequiredSkills))
	for _, s := range idea.RequiredSkills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) == 0 {
		skills = []string{defaultSkill}
	}
	idea.RequiredSkills = skills

	if !SafeLink(idea.LearnMoreLink) {
		idea.LearnMoreLink = FallbackLink(idea.Name)
	}
	return idea
}

// SafeLink сообщает, что ссылка абсолютная, с хостом и схемой https.
func SafeLink(link string) bool {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host != ""
}

// FallbackLink поисковая ссылка по названию идеи.
func FallbackLink(name string) string {
	return searchURL + url.QueryEscape(name+" side hustle")
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
