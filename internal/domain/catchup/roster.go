package catchup

import "github.com/okian/rivals/internal/domain/model"

// DefaultRoster returns the competitors created on first run, each with a
// distinct daily probability.
func DefaultRoster() []model.Competitor {
	return []model.Competitor{
		{Name: "Maya", AvatarRef: "avatar_maya", DailyProbability: 0.85},
		{Name: "Leo", AvatarRef: "avatar_leo", DailyProbability: 0.70},
		{Name: "Priya", AvatarRef: "avatar_priya", DailyProbability: 0.60},
		{Name: "Jonas", AvatarRef: "avatar_jonas", DailyProbability: 0.50},
		{Name: "Aiko", AvatarRef: "avatar_aiko", DailyProbability: 0.35},
	}
}
