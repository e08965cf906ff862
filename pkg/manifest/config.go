package manifest

import (
	"errors"
	"fmt"
)

// Config is the top-level manifest: a list of [[endpoint]] tables.
type Config struct {
	Endpoints []Endpoint `toml:"endpoint"`
}

// Validate normalizes every endpoint and rejects invalid or duplicate records.
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return errors.New("no endpoints defined")
	}
	seen := make(map[string]int, len(c.Endpoints))
	for i := range c.Endpoints {
		c.Endpoints[i].Normalize()
		ep := c.Endpoints[i]
		if err := ep.Validate(); err != nil {
			return fmt.Errorf("endpoint %d (%s): %w", i, ep.Name, err)
		}
		if j, dup := seen[ep.Name]; dup {
			return fmt.Errorf("endpoint %d: name %q already defined by endpoint %d", i, ep.Name, j)
		}
		seen[ep.Name] = i
	}
	return nil
}

// Index returns the endpoints keyed by name. Call after Validate.
func (c Config) Index() map[string]Endpoint {
	out := make(map[string]Endpoint, len(c.Endpoints))
	for _, ep := range c.Endpoints {
		out[ep.Name] = ep
	}
	return out
}
