package suggest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		count int
		want  []string
	}{
		{
			name:  "mixed markers with duplicates and blanks",
			raw:   "- Write code\n* Write code\n1. Review PRs\n\n  \n- Deploy",
			count: 10,
			want:  []string{"Write code", "Review PRs", "Deploy"},
		},
		{
			name:  "bullet glyphs and en dash",
			raw:   "• Health insurance\n– Remote work\n  - Stock options  ",
			count: 5,
			want:  []string{"Health insurance", "Remote work", "Stock options"},
		},
		{
			name:  "other bullet glyphs",
			raw:   "· Go\n● Kubernetes\n▪ Terraform\n◦ SQL",
			count: 5,
			want:  []string{"Go", "Kubernetes", "Terraform", "SQL"},
		},
		{
			name:  "windows line endings",
			raw:   "Go\r\nSQL\r\n",
			count: 5,
			want:  []string{"Go", "SQL"},
		},
		{
			name:  "dedup is case sensitive",
			raw:   "Python\npython\nPython",
			count: 5,
			want:  []string{"Python", "python"},
		},
		{
			name:  "truncates to count keeping generation order",
			raw:   "c\nb\na\nd",
			count: 3,
			want:  []string{"c", "b", "a"},
		},
		{
			name:  "zero count",
			raw:   "a\nb",
			count: 0,
			want:  []string{},
		},
		{
			name:  "only markers",
			raw:   "1.\n-\n* \n42",
			count: 5,
			want:  []string{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseSuggestions(tc.raw, tc.count))
		})
	}
}

func TestParseSuggestions_Properties(t *testing.T) {
	raws := []string{
		"",
		"\n\n\n",
		"- a\n- a\n- a",
		"1. x\n2. y\n3. x\n4. z\n5. y",
		strings.Repeat("- item\n- other\n", 50),
	}
	for _, raw := range raws {
		for count := 1; count <= 4; count++ {
			got := ParseSuggestions(raw, count)
			assert.LessOrEqual(t, len(got), count)
			seen := map[string]bool{}
			for _, item := range got {
				assert.NotEmpty(t, item)
				assert.False(t, seen[item], "duplicate %q", item)
				seen[item] = true
			}
		}
	}
}

func TestExtractBullets(t *testing.T) {
	text := `About us
We are a small team.

Responsibilities:
- Design services
* Review code
• Mentor juniors
1. Design services
2. On-call rotation
Salary is competitive.
-
`
	assert.Equal(t, []string{"Design services", "Review code", "Mentor juniors", "On-call rotation"}, ExtractBullets(text))
	assert.Empty(t, ExtractBullets("plain prose only"))
	assert.Equal(t, []string{"Dental", "Gym"}, ExtractBullets("● Dental\n◦ Gym\n"))
}
