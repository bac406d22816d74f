package health

import "time"

// Service encapsulates health-related checks.
type Service struct {
	provider string
	started  time.Time
	now      func() time.Time
}

// Status is the /health payload.
type Status struct {
	OK            bool   `json:"ok"`
	Provider      string `json:"provider"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

// NewService constructs a new health service for the configured provider.
func NewService(provider string) *Service {
	return &Service{provider: provider, started: time.Now(), now: time.Now}
}

// Status returns a simple health payload.
func (s *Service) Status() Status {
	return Status{
		OK:            true,
		Provider:      s.provider,
		UptimeSeconds: int64(s.now().Sub(s.started) / time.Second),
	}
}
