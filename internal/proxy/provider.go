package proxy

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"jobspy-service/internal/config"
)

const sessionIDLength = 8

const sessionIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Session carries the credentials for one sticky upstream exit. The
// gateway derives the exit from the username, so a new session ID means
// a new IP without changing the endpoint.
type Session struct {
	Host     string
	Port     int
	Login    string
	Password string
	Country  string
	ID       string
}

// Username returns the gateway username encoding country and session ID.
func (s *Session) Username() string {
	return fmt.Sprintf("%s__cr.%s__sid.%s", s.Login, s.Country, s.ID)
}

// Address returns the host:port gateway endpoint.
func (s *Session) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// URL returns the full proxy URL with embedded credentials.
func (s *Session) URL() string {
	u := url.URL{
		Scheme: "http",
		User:   url.UserPassword(s.Username(), s.Password),
		Host:   s.Address(),
	}
	return u.String()
}

// Masked returns a log-safe representation with the password hidden.
func (s *Session) Masked() string {
	return fmt.Sprintf("http://%s:***@%s", s.Username(), s.Address())
}

// Provider issues proxy sessions against a rotating residential gateway.
type Provider struct {
	host     string
	port     int
	login    string
	password string
}

// NewProvider creates a session provider from configuration. Construction
// fails fast when credentials are missing so a misconfigured deployment
// never sends unproxied traffic.
func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.Proxy.Login == "" || cfg.Proxy.Password == "" {
		return nil, fmt.Errorf("proxy credentials not configured")
	}
	if cfg.Proxy.Host == "" || cfg.Proxy.Port == 0 {
		return nil, fmt.Errorf("proxy gateway not configured")
	}

	return &Provider{
		host:     cfg.Proxy.Host,
		port:     cfg.Proxy.Port,
		login:    cfg.Proxy.Login,
		password: cfg.Proxy.Password,
	}, nil
}

// Next issues a fresh session for the given country. Each call generates
// a new random session ID, which the gateway maps to a different exit IP.
func (p *Provider) Next(country string) (*Session, error) {
	id, err := randomSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	return &Session{
		Host:     p.host,
		Port:     p.port,
		Login:    p.login,
		Password: p.password,
		Country:  strings.ToLower(country),
		ID:       id,
	}, nil
}

func randomSessionID() (string, error) {
	var sb strings.Builder
	sb.Grow(sessionIDLength)

	max := big.NewInt(int64(len(sessionIDAlphabet)))
	for i := 0; i < sessionIDLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(sessionIDAlphabet[n.Int64()])
	}

	return sb.String(), nil
}
