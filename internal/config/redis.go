package config

type RedisConfig struct {
	Address  string `yaml:"addr"`
	Pswd     string `yaml:"password"`
	Database int    `yaml:"db"`
}

func (s *RedisConfig) Addr() string {
	return s.Address
}

func (s *RedisConfig) Password() string {
	return s.Pswd
}

func (s *RedisConfig) DB() int {
	return s.Database
}
