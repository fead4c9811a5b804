package handlers

import (
	"context"
	"mqtt-onoff/internal/mqtt"
	"mqtt-onoff/internal/services"
	"time"

	"github.com/rs/zerolog"
)

type CommandHandler struct {
	outputService *services.OutputService
	topicManager  *mqtt.TopicManager
	feedName      string
	logger        zerolog.Logger
}

func NewCommandHandler(outputService *services.OutputService, topicManager *mqtt.TopicManager, feedName string, logger zerolog.Logger) *CommandHandler {
	return &CommandHandler{
		outputService: outputService,
		topicManager:  topicManager,
		feedName:      feedName,
		logger:        logger,
	}
}

func (h *CommandHandler) HandleMessage(topic string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h.logger.Info().
		Str("topic", topic).
		Str("payload", string(payload)).
		Msg("Received message")

	if feed, err := h.topicManager.ExtractFeedName(topic); err != nil || feed != h.feedName {
		h.logger.Warn().
			Str("topic", topic).
			Str("feed", h.feedName).
			Msg("Ignoring message outside the subscribed feed")
		return
	}

	transition, err := h.outputService.Apply(ctx, payload)
	if err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Str("command", string(transition.Command.Type)).
			Msg("Could not apply command")
		return
	}

	if !transition.Write {
		h.logger.Info().
			Str("topic", topic).
			Str("payload", string(payload)).
			Msg("Ignoring unrecognized command")
	}
}
