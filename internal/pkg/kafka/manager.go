package kafka

import (
	"Gavel/internal/api/config"
	"context"
	log "log/slog"
	"sync"

	"github.com/IBM/sarama"
)

type consumer struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理热度重算相关的 Kafka 消费者
type ConsumerManager struct {
	consumers []*consumer
}

func NewConsumerManager(cfg *config.Config, recomputer Recomputer) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	voteGroup, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaVoteConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	commentGroup, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaCommentConsumer.GroupID, saramaCfg)
	if err != nil {
		_ = voteGroup.Close()
		return nil, err
	}

	return &ConsumerManager{
		consumers: []*consumer{
			{name: "vote", topic: cfg.KafkaVoteConsumer.Topic, group: voteGroup, handler: NewVoteChangeHandler(recomputer)},
			{name: "comment", topic: cfg.KafkaCommentConsumer.Topic, group: commentGroup, handler: NewCommentChangeHandler(recomputer)},
		},
	}, nil
}

// Start 启动所有消费者，ctx 取消后关闭消费者组并返回
func (m *ConsumerManager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, c := range m.consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("consumer started", "name", c.name, "topic", c.topic)
			for {
				if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
					log.Error("Error from consumer", "name", c.name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}()

		go func() {
			for err := range c.group.Errors() {
				log.Error("consumer group error", "name", c.name, "err", err)
			}
		}()
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "name", c.name, "err", err)
		}
	}
	wg.Wait()
	return nil
}
