package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amishk599/reqwiz/internal/model"
)

func TestInferCategory(t *testing.T) {
	tests := []struct {
		text string
		want model.Category
	}{
		{"List challenges and responsibilities", model.CategoryTasks},
		{"required qualifications", model.CategorySkills},
		{"perks and compensation", model.CategoryBenefits},
		{"", model.CategoryTasks},
		{"Which SKILLS matter?", model.CategorySkills},
		{"core competences", model.CategorySkills},
		{"Employee BENEFITS", model.CategoryBenefits},
		{"skills and benefits", model.CategorySkills},
		{"daily tasks and perks", model.CategoryTasks},
		{"something unrelated", model.CategoryTasks},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, InferCategory(tc.text))
		})
	}
}
