// Package standings ranks the user among the simulated competitors.
package standings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/okian/rivals/internal/domain/model"
	"github.com/okian/rivals/internal/domain/types"
)

var (
	// ErrInvalidLimit is returned for a non-positive or oversized limit.
	ErrInvalidLimit = errors.New("invalid limit")
	// ErrNotFound is returned when a name is not on the board.
	ErrNotFound = errors.New("not on the leaderboard")
)

// Rank orders the user and the competitors by points descending, then name
// ascending. Ties share neither rank nor position: ranks are 1..n.
func Rank(user *model.UserData, competitors []model.Competitor) []types.Entry {
	out := make([]types.Entry, 0, len(competitors)+1)
	for _, c := range competitors {
		out = append(out, types.Entry{Name: c.Name, Avatar: c.AvatarRef, Points: c.Points})
	}
	if user != nil {
		out = append(out, types.Entry{Name: user.Name, Points: user.TotalPoints, IsUser: true})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// TopN returns the first n ranked entries. n must be in [1, maxLimit].
func TopN(entries []types.Entry, n, maxLimit int) ([]types.Entry, error) {
	if n <= 0 || (maxLimit > 0 && n > maxLimit) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	if n > len(entries) {
		n = len(entries)
	}
	return entries[:n], nil
}

// UserRank returns the user's row.
func UserRank(entries []types.Entry) (types.Entry, error) {
	for _, e := range entries {
		if e.IsUser {
			return e, nil
		}
	}
	return types.Entry{}, ErrNotFound
}
