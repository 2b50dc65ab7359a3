package bridge

import (
	"strings"

	"github.com/dtnitsch/web-table-parser/models"
)

// suggestAction guesses the action a caller meant. Case differences win
// outright, then a shared three-letter prefix.
func suggestAction(action string) string {
	for _, a := range models.AllActions() {
		if strings.EqualFold(a, action) {
			return a
		}
	}
	lower := strings.ToLower(action)
	for _, a := range models.AllActions() {
		if len(lower) > 2 && strings.HasPrefix(strings.ToLower(a), lower[:3]) {
			return a
		}
	}
	return ""
}
