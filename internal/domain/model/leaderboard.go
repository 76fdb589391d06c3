package model

import "sort"

type LeaderboardEntry struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// BuildLeaderboard projects users into entries ordered by score, highest
// first. Users with equal scores keep the order they were given in, which is
// registration order when fed from the directory.
func BuildLeaderboard(users []*User) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, LeaderboardEntry{
			UserID:   u.ID,
			Username: u.Username,
			Score:    u.Score,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}
