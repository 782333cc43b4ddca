package models

// LeaderboardEntry is one row of a message-count leaderboard.
type LeaderboardEntry struct {
	UserID       string `json:"user_id" bson:"_id"`
	DisplayName  string `json:"display_name" bson:"-"`
	MessageCount int64  `json:"message_count" bson:"message_count"`
}

// StatsReport bundles a user's personal statistics with the room leaderboards.
type StatsReport struct {
	DisplayName      string             `json:"display_name"`
	TotalMessages    int64              `json:"total_messages"`
	StrikeCount      int                `json:"strike_count"`
	TotalMutesServed int                `json:"total_mutes_served"`
	Daily            []LeaderboardEntry `json:"daily"`
	Weekly           []LeaderboardEntry `json:"weekly"`
	Monthly          []LeaderboardEntry `json:"monthly"`
	Rank             int                `json:"rank"`
	TotalUsers       int                `json:"total_users"`
}
