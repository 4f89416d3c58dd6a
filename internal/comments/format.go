package comments

import (
	"strings"

	. "github.com/gonz247/commentgenerator/internal/models"
)

// FormatList renders a comma separated list as prose: "A", "A and B",
// "A, B, and C".
func FormatList(items string) string {
	terms := SplitTerms(items)

	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	case 2:
		return terms[0] + " and " + terms[1]
	}

	last := len(terms) - 1
	return strings.Join(terms[:last], ", ") + ", and " + terms[last]
}
