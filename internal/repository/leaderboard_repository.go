package repository

import (
	"math_arena_backend/internal/model"

	"gorm.io/gorm"
)

// LeaderboardRepository owns the get_leaderboard aggregation. Scoring and
// ranking live entirely in this query; nothing above this layer re-derives
// rank from raw submissions.
type LeaderboardRepository struct {
	DB *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{DB: db}
}

const leaderboardQuery = `
SELECT u.id AS user_id,
       u.username,
       COALESCE(SUM(p.points), 0) AS score,
       MAX(s.submitted_at) AS last_submission_time,
       RANK() OVER (ORDER BY COALESCE(SUM(p.points), 0) DESC, MAX(s.submitted_at) ASC) AS ` + "`rank`" + `
FROM submissions s
JOIN problems p ON p.id = s.problem_id
JOIN users u ON u.id = s.user_id
WHERE p.contest_id = ? AND s.is_correct = TRUE
GROUP BY u.id, u.username
ORDER BY ` + "`rank`" + ` ASC`

// GetLeaderboard returns ranked rows for a contest, rank ascending. Ties
// are broken by the earlier last correct submission inside the query, so
// rows arrive already tie-broken. limit <= 0 returns the full set.
func (r *LeaderboardRepository) GetLeaderboard(contestID uint, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry

	query := leaderboardQuery
	args := []interface{}{contestID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	err := r.DB.Raw(query, args...).Scan(&entries).Error
	return entries, err
}
