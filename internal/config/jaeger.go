package config

const defaultServiceName = "kinder-converter"

type JaegerConfig struct {
	Service   string `yaml:"service-name"`
	AgentAddr string `yaml:"agent-addr"`
}

func (j *JaegerConfig) ServiceName() string {
	if j.Service == "" {
		return defaultServiceName
	}
	return j.Service
}

func (j *JaegerConfig) AgentHostPort() string {
	return j.AgentAddr
}

func (j *JaegerConfig) Enabled() bool {
	return j.AgentAddr != ""
}
