package queue

import "time"

// TreeVerifiedQueue is the queue verification events are published to.
const TreeVerifiedQueue = "tree.verified"

// TreeVerifiedEvent is emitted after an administrator approves or declines
// a tree submission.
type TreeVerifiedEvent struct {
	TreeID     uint      `json:"tree_id"`
	UserID     uint      `json:"user_id"`
	Status     string    `json:"status"`
	VerifiedAt time.Time `json:"verified_at"`
}
