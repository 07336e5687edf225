package models

import "time"

// Post is a single timestamped message. Posts are values: every mailbox and
// every timeline log holds its own copy.
type Post struct {
	// Timestamp is the arrival time, stamped by the server when the client
	// leaves it unset.
	Timestamp time.Time `json:"time"`

	// Sender is the username of the author.
	Sender string `json:"sender"`

	// Text is the post body.
	Text string `json:"text"`
}
