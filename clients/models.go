package clients

// SlackMessage is the subset of a fetched Slack message the pipeline needs.
type SlackMessage struct {
	ChannelID string
	Timestamp string
	UserID    string
	Text      string
}
