package models

// IdeasPerBatch количество идей в одном ответе генератора.
const IdeasPerBatch = 3

// Idea одна рекомендация подработки. После создания не изменяется.
type Idea struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	EstimatedProfit     string   `json:"estimatedProfit"`
	StartupCost         string   `json:"startupCost"`
	TimeCommitment      string   `json:"timeCommitment"`
	RequiredSkills      []string `json:"requiredSkills"`
	PotentialChallenges string   `json:"potentialChallenges"`
	LearnMoreLink       string   `json:"learnMoreLink"`
}

// CustomOption значение варианта выбора, при котором используется свободный текст.
const CustomOption = "Custom"

// HustleProfile входные данные пользователя для генерации.
type HustleProfile struct {
	Interest       string `json:"interest" validate:"required,max=200"`
	Budget         string `json:"budget" validate:"required,max=200"`
	Time           string `json:"time" validate:"required,max=200"`
	CustomInterest string `json:"customInterest,omitempty" validate:"max=200"`
	CustomBudget   string `json:"customBudget,omitempty" validate:"max=200"`
	CustomTime     string `json:"customTime,omitempty" validate:"max=200"`
}

// Resolved возвращает профиль, в котором вариант "Custom" заменён свободным текстом.
func (p HustleProfile) Resolved() HustleProfile {
	return HustleProfile{
		Interest: resolve(p.Interest, p.CustomInterest),
		Budget:   resolve(p.Budget, p.CustomBudget),
		Time:     resolve(p.Time, p.CustomTime),
	}
}

func resolve(choice, custom string) string {
	if choice == CustomOption && custom != "" {
		return custom
	}
	return choice
}
