package settings

import "fmt"

// Keys holding the outgoing mail configuration.
const (
	KeySMTPHost = "smtp_host"
	KeySMTPPort = "smtp_port"
	KeySMTPUser = "smtp_user"
	KeySMTPPass = "smtp_pass"
	KeySMTPFrom = "smtp_from"
)

// DefaultSMTPPort is used when no port has been saved.
const DefaultSMTPPort = "587"

// SMTPConfig is the outgoing mail configuration read by the report mailer.
type SMTPConfig struct {
	Host string `json:"host"`
	Port string `json:"port"`
	User string `json:"user"`
	Pass string `json:"pass,omitempty"`
	From string `json:"from"`
}

// IsConfigured reports whether enough is set to attempt delivery.
func (c SMTPConfig) IsConfigured() bool {
	return c.Host != "" && c.User != "" && c.Pass != ""
}

// SMTP loads the mail configuration. From falls back to User.
func (s *Store) SMTP() (SMTPConfig, error) {
	var c SMTPConfig
	fields := []struct {
		key      string
		fallback string
		dst      *string
	}{
		{KeySMTPHost, "", &c.Host},
		{KeySMTPPort, DefaultSMTPPort, &c.Port},
		{KeySMTPUser, "", &c.User},
		{KeySMTPPass, "", &c.Pass},
		{KeySMTPFrom, "", &c.From},
	}
	for _, f := range fields {
		v, err := s.Get(f.key, f.fallback)
		if err != nil {
			return SMTPConfig{}, fmt.Errorf("loading smtp settings: %w", err)
		}
		*f.dst = v
	}
	if c.From == "" {
		c.From = c.User
	}
	return c, nil
}

// SaveSMTP stores every field of c. An empty Port stores the default.
func (s *Store) SaveSMTP(c SMTPConfig) error {
	if c.Port == "" {
		c.Port = DefaultSMTPPort
	}
	values := map[string]string{
		KeySMTPHost: c.Host,
		KeySMTPPort: c.Port,
		KeySMTPUser: c.User,
		KeySMTPPass: c.Pass,
		KeySMTPFrom: c.From,
	}
	for k, v := range values {
		if err := s.Set(k, v); err != nil {
			return fmt.Errorf("saving smtp settings: %w", err)
		}
	}
	return nil
}
