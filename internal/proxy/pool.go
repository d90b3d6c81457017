package proxy

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// Pool hands out static proxy URLs round-robin. Used when a deployment
// supplies its own proxy list instead of the rotating gateway.
type Pool struct {
	proxies []string
	index   int
	mu      sync.Mutex
}

// NewPool creates a pool over a fixed proxy list.
func NewPool(proxies []string) *Pool {
	return &Pool{proxies: proxies}
}

// Size returns the number of proxies in the pool.
func (p *Pool) Size() int {
	return len(p.proxies)
}

// Next returns the next proxy in round-robin order.
func (p *Pool) Next() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return "", fmt.Errorf("proxy pool is empty")
	}

	proxy := p.proxies[p.index]
	p.index = (p.index + 1) % len(p.proxies)
	return proxy, nil
}

// Random returns a uniformly random proxy from the pool.
func (p *Pool) Random() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return "", fmt.Errorf("proxy pool is empty")
	}

	return p.proxies[rand.Intn(len(p.proxies))], nil
}

// Mask hides credentials in a proxy URL for logging.
func Mask(proxyURL string) string {
	at := strings.LastIndex(proxyURL, "@")
	if at == -1 {
		return proxyURL
	}

	scheme := ""
	rest := proxyURL
	if i := strings.Index(proxyURL, "://"); i != -1 {
		scheme = proxyURL[:i+3]
		rest = proxyURL[i+3:]
		at = strings.LastIndex(rest, "@")
		if at == -1 {
			return proxyURL
		}
	}

	creds := rest[:at]
	host := rest[at+1:]

	colon := strings.Index(creds, ":")
	if colon == -1 {
		return scheme + "***@" + host
	}

	return scheme + creds[:colon] + ":***@" + host
}
