package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

// Поля объекта-обёртки, под которыми модели возвращают массив.
var wrapperKeys = []string{"hustles", "ideas"}

// ParseIdeas разбирает текстовый ответ модели.
// Допускается обёртка в markdown-блок кода, голый массив или объект с массивом
// под одним из известных полей. Пустой результат считается ошибкой формата.
func ParseIdeas(raw string) ([]models.Idea, error) {
	data := []byte(StripCodeFence(raw))

	var items []map[string]json.RawMessage
	switch {
	case bytes.HasPrefix(data, []byte("[")):
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	case bytes.HasPrefix(data, []byte("{")):
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		found := false
		for _, key := range wrapperKeys {
			if arr, ok := wrapper[key]; ok {
				if err := json.Unmarshal(arr, &items); err != nil {
					return nil, fmt.Errorf("%w: field %q: %v", ErrFormat, key, err)
				}
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: object without ideas array", ErrFormat)
		}
	default:
		return nil, fmt.Errorf("%w: not a JSON array or object", ErrFormat)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no ideas", ErrFormat)
	}

	ideas := make([]models.Idea, 0, len(items))
	for _, item := range items {
		ideas = append(ideas, models.Idea{
			Name:                text(item["name"]),
			Description:         text(item["description"]),
			EstimatedProfit:     text(item["estimatedProfit"]),
			StartupCost:         text(item["startupCost"]),
			TimeCommitment:      text(item["timeCommitment"]),
			RequiredSkills:      list(item["requiredSkills"]),
			PotentialChallenges: text(item["potentialChallenges"]),
			LearnMoreLink:       text(item["learnMoreLink"]),
		})
	}
	return ideas, nil
}

// StripCodeFence убирает обрамление ```json ... ``` вокруг ответа.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// text приводит строку или число к строке, остальное даёт пустую строку.
func text(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// list принимает массив строк или строку через запятую.
func list(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			if s := text(v); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return nil
}
