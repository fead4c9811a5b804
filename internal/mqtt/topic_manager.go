package mqtt

import (
	"fmt"
	"strings"
)

const FeedTopicTemplate = "%s/feeds/%s"

type TopicManager struct {
	username string
}

func NewTopicManager(username string) *TopicManager {
	return &TopicManager{username: strings.Trim(username, "/")}
}

// FeedTopic returns the topic a feed is published on, e.g. "alice/feeds/onoff".
func (m *TopicManager) FeedTopic(feedName string) string {
	return fmt.Sprintf(FeedTopicTemplate, m.username, strings.Trim(feedName, "/"))
}

// ExtractFeedName is the inverse of FeedTopic.
func (m *TopicManager) ExtractFeedName(topic string) (string, error) {
	prefix := fmt.Sprintf(FeedTopicTemplate, m.username, "")
	feed, found := strings.CutPrefix(topic, prefix)
	if !found || feed == "" || strings.Contains(feed, "/") {
		return "", fmt.Errorf("could not extract feed name from topic '%s'", topic)
	}
	return feed, nil
}
