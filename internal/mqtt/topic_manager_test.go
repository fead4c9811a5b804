package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicManager_FeedTopic(t *testing.T) {
	manager := NewTopicManager("alice")

	assert.Equal(t, "alice/feeds/onoff", manager.FeedTopic("onoff"))
	assert.Equal(t, "alice/feeds/onoff", manager.FeedTopic("/onoff/"))
}

func TestTopicManager_ExtractFeedName(t *testing.T) {
	manager := NewTopicManager("alice")

	feed, err := manager.ExtractFeedName("alice/feeds/onoff")
	require.NoError(t, err)
	assert.Equal(t, "onoff", feed)

	for _, topic := range []string{
		"bob/feeds/onoff",
		"alice/feeds/",
		"alice/feeds/onoff/json",
		"alice/errors",
	} {
		_, err := manager.ExtractFeedName(topic)
		assert.Error(t, err, topic)
	}
}
