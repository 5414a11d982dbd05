package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/segmentio/kafka-go"
	"github.com/vmihailenco/msgpack/v5"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/repo"
)

const (
	OverviewTopic = "analytics-overview-updates"

	numPartitions = 3
)

// TopicConfig holds the settings for topic creation.
type TopicConfig struct {
	NumPartitions     int
	ReplicationFactor int
}

type OverviewEventKafkaRepository struct {
	writer        *kafka.Writer
	readerFactory func() *kafka.Reader
	brokers       []string
}

func NewOverviewEventKafkaRepository(brokers []string) (repo.OverviewEventRepository, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	topicConfig := TopicConfig{
		NumPartitions:     numPartitions,
		ReplicationFactor: maxReplicationFactor(ctx, brokers, 3),
	}
	if err := createTopicIfNotExists(ctx, brokers, OverviewTopic, topicConfig); err != nil {
		return nil, fmt.Errorf("failed to create overview topic: %w", err)
	}

	return &OverviewEventKafkaRepository{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    OverviewTopic,
			Balancer: &kafka.LeastBytes{},
		},
		readerFactory: func() *kafka.Reader {
			// A time-based group id guarantees each subscriber only sees
			// events published after it connected.
			groupID := fmt.Sprintf("overview-listener-%d", time.Now().UnixNano())
			return kafka.NewReader(kafka.ReaderConfig{
				Brokers:     brokers,
				Topic:       OverviewTopic,
				GroupID:     groupID,
				MinBytes:    1,
				MaxBytes:    10e6,
				StartOffset: kafka.LastOffset,
			})
		},
		brokers: brokers,
	}, nil
}

func (r *OverviewEventKafkaRepository) PublishOverviewEvent(ctx context.Context, event *entity.OverviewEvent) error {
	b, err := encodeOverviewEvent(event)
	if err != nil {
		return err
	}
	return r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%s/%s", event.Platform, event.AccountID)),
		Value: b,
	})
}

func (r *OverviewEventKafkaRepository) SubscribeOverviewEvents(ctx context.Context) (<-chan *entity.OverviewEvent, error) {
	reader := r.readerFactory()
	events := make(chan *entity.OverviewEvent)

	go func() {
		defer close(events)
		defer func() { _ = reader.Close() }()
		for {
			message, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Errorf("failed to read overview event: %v", err)
				}
				return
			}
			event, err := decodeOverviewEvent(message.Value)
			if err != nil {
				log.Errorf("failed to decode overview event: %v", err)
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

func encodeOverviewEvent(event *entity.OverviewEvent) ([]byte, error) {
	return msgpack.Marshal(event)
}

func decodeOverviewEvent(b []byte) (*entity.OverviewEvent, error) {
	var event entity.OverviewEvent
	if err := msgpack.Unmarshal(b, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func createTopicIfNotExists(ctx context.Context, brokers []string, topic string, config TopicConfig) error {
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	exists, err := topicExists(conn, topic)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer func() { _ = controllerConn.Close() }()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     config.NumPartitions,
		ReplicationFactor: config.ReplicationFactor,
	})
}

func topicExists(conn *kafka.Conn, topic string) (bool, error) {
	partitions, err := conn.ReadPartitions(topic)
	if err != nil {
		if errors.Is(err, kafka.UnknownTopicOrPartition) {
			return false, nil
		}
		return false, err
	}
	return len(partitions) > 0, nil
}

// maxReplicationFactor caps the desired factor by the number of reachable
// brokers, falling back to the configured broker list when metadata is
// unavailable.
func maxReplicationFactor(ctx context.Context, brokers []string, desired int) int {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(dialCtx, "tcp", brokers[0])
	if err != nil {
		log.Warnf("failed to read kafka broker metadata, using %d: %v", min(len(brokers), desired), err)
		return min(len(brokers), desired)
	}
	defer func() { _ = conn.Close() }()

	metadata, err := conn.Brokers()
	if err != nil || len(metadata) == 0 {
		return min(len(brokers), desired)
	}
	return min(len(metadata), desired)
}
