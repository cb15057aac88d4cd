package config

type AuthConfig struct {
	Secret            string `yaml:"jwt-secret"`
	TokenTTLMinutes   int64  `yaml:"token-ttl-minutes"`
	SessionTTLMinutes int64  `yaml:"session-ttl-minutes"`
}

func (s *AuthConfig) JWTSecret() string {
	return s.Secret
}

func (s *AuthConfig) TokenTTL() int64 {
	return s.TokenTTLMinutes
}

func (s *AuthConfig) SessionTTL() int64 {
	return s.SessionTTLMinutes
}
