package config

type ServerConfig struct {
	ListenAddr     string  `yaml:"addr"`
	RateLimitRPS   float64 `yaml:"rate-limit-rps"`
	RateLimitBurst int     `yaml:"rate-limit-burst"`
}

func (s *ServerConfig) Addr() string {
	return s.ListenAddr
}

func (s *ServerConfig) RPS() float64 {
	return s.RateLimitRPS
}

func (s *ServerConfig) Burst() int {
	return s.RateLimitBurst
}
