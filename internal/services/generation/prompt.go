package generation

import (
	"fmt"

	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

// BuildPrompt формирует запрос к модели по выбору пользователя.
// Вариант "Custom" уже должен быть заменён свободным текстом.
func BuildPrompt(p models.HustleProfile) string {
	return fmt.Sprintf(`You are a practical career advisor. Suggest exactly %d side hustle ideas for a person with:
- Interest: %s
- Budget: %s
- Time available per week: %s

Respond with strict JSON only, no prose and no markdown, in the form:
{"hustles": [{"name": string, "description": string, "estimatedProfit": string, "startupCost": string, "timeCommitment": string, "requiredSkills": [string], "potentialChallenges": string, "learnMoreLink": string}]}

Every field is required. estimatedProfit is a monthly range in USD, startupCost an upfront range in USD,
timeCommitment hours per week, and learnMoreLink an https URL to a reputable guide.`,
		models.IdeasPerBatch, p.Interest, p.Budget, p.Time)
}
