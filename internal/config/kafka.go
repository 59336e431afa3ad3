package config

const defaultConsumerGroup = "converter-reporter"

type KafkaConfig struct {
	BrokerList []string `yaml:"brokers"`
	Topic      string   `yaml:"rates-topic"`
	Group      string   `yaml:"consumer-group"`
}

func (s *KafkaConfig) Brokers() []string {
	return s.BrokerList
}

func (s *KafkaConfig) RatesTopic() string {
	return s.Topic
}

func (s *KafkaConfig) ConsumerGroup() string {
	if s.Group == "" {
		return defaultConsumerGroup
	}
	return s.Group
}

// Enabled reports whether rate events should be published.
func (s *KafkaConfig) Enabled() bool {
	return len(s.BrokerList) > 0 && s.Topic != ""
}
