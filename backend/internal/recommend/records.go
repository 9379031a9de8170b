package recommend

// Output record shapes consumed by the routing layer. Field order and json
// keys are part of the response contract.

// StruggleRecord is a lesson recommended to reinforce a struggled skill
type StruggleRecord struct {
	LessonID    string `json:"lesson_id"`
	Topic       string `json:"topic"`
	Difficulty  *int   `json:"difficulty"`
	Description string `json:"description"`
}

// SimilarityRecord is a lesson similar to the user's most recent completion
type SimilarityRecord struct {
	LessonID    string   `json:"lesson_id"`
	Topic       string   `json:"topic"`
	Description string   `json:"description"`
	Similarity  *float64 `json:"similarity"`
}

// CollaborativeRecord is a lesson completed by peers with shared struggles.
// Votes counts (peer, shared-skill) co-occurrence paths, not distinct peers.
type CollaborativeRecord struct {
	LessonID    string `json:"lesson_id"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
	Votes       int    `json:"votes"`
}

// SocialRecord is a lesson completed by the user's friends. friend_count and
// friends_completed carry the same value; both keys are kept on the wire for
// compatibility with existing consumers.
type SocialRecord struct {
	LessonID         string `json:"lesson_id"`
	Topic            string `json:"topic"`
	Description      string `json:"description"`
	FriendCount      int    `json:"friend_count"`
	FriendsCompleted int    `json:"friends_completed"`
}

// NetworkPeer is a user reached by the bounded friendship traversal
type NetworkPeer struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Distance     int    `json:"distance"`
	Relationship string `json:"relationship"`
}
