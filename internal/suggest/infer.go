package suggest

import (
	"strings"

	"github.com/amishk599/reqwiz/internal/model"
)

// categoryKeywords is checked top to bottom; the first category with a
// matching keyword wins.
var categoryKeywords = []struct {
	category model.Category
	keywords []string
}{
	{model.CategoryTasks, []string{"task", "responsibilit", "challenge"}},
	{model.CategorySkills, []string{"skill", "competence", "qualification"}},
	{model.CategoryBenefits, []string{"benefit", "perk"}},
}

// InferCategory guesses which category free-form prompt text is asking for
// by case-insensitive keyword substring match. It is a coarse heuristic and
// falls back to tasks when nothing matches.
func InferCategory(text string) model.Category {
	lower := strings.ToLower(text)
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(lower, kw) {
				return ck.category
			}
		}
	}
	return model.CategoryTasks
}
