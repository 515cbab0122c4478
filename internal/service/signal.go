package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/totegamma/capitalist"
)

// SignalService fans saved-list events out over a redis channel.
type SignalService struct {
	rdb     *redis.Client
	channel string
	logger  logrus.FieldLogger
}

func NewSignalService(redisClient *redis.Client, channel string, logger logrus.FieldLogger) *SignalService {
	return &SignalService{
		rdb:     redisClient,
		channel: channel,
		logger:  logger,
	}
}

func (s *SignalService) Publish(ctx context.Context, event capitalist.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, s.channel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Realtime forwards events from the channel to output until ctx is done.
func (s *SignalService) Realtime(ctx context.Context, output chan<- capitalist.Event) {
	pubsub := s.rdb.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var event capitalist.Event
			err := json.Unmarshal([]byte(msg.Payload), &event)
			if err != nil {
				s.logger.WithError(err).WithField("channel", msg.Channel).Warn("dropping malformed event")
				continue
			}

			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
