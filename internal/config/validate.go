package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate reports configuration problems that would break the console at runtime.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		problems = append(problems, "backend.base_url is required")
	} else if _, err := url.Parse(c.Backend.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("backend.base_url is not a valid URL: %v", err))
	}

	if ws := strings.TrimSpace(c.Backend.WebSocketURL); ws != "" {
		parsed, err := url.Parse(ws)
		if err != nil {
			problems = append(problems, fmt.Sprintf("backend.websocket_url is not a valid URL: %v", err))
		} else if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
			problems = append(problems, fmt.Sprintf("backend.websocket_url: unsupported scheme %q", parsed.Scheme))
		}
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}

	if c.Mirror.Enabled && strings.TrimSpace(c.Mirror.Dir) == "" {
		problems = append(problems, "mirror.dir is required when the mirror is enabled")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration:\n  - " + strings.Join(problems, "\n  - "))
}
