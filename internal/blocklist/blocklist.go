package blocklist

import (
	"strings"

	"go.uber.org/zap"
)

// builtinPatterns mark senders that never carry a human signature
var builtinPatterns = []string{"reply", "mailer-daemon"}

// Checker decides whether a From header belongs to an automated sender
type Checker struct {
	patterns []string
	logger   *zap.Logger
}

// NewChecker creates a new blocklist checker. extra patterns are added to
// the built-in "reply" and "mailer-daemon" substrings.
func NewChecker(extra []string, logger *zap.Logger) *Checker {
	patterns := make([]string, 0, len(builtinPatterns)+len(extra))
	patterns = append(patterns, builtinPatterns...)
	for _, p := range extra {
		// Normalize patterns (lowercase)
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			patterns = append(patterns, p)
		}
	}

	if len(extra) > 0 && logger != nil {
		logger.Info("Initialized sender blocklist", zap.Strings("patterns", patterns))
	}

	return &Checker{
		patterns: patterns,
		logger:   logger,
	}
}

// IsBlocked checks if the From header matches any blocked pattern
func (c *Checker) IsBlocked(from string) bool {
	from = strings.ToLower(from)
	for _, p := range c.patterns {
		if strings.Contains(from, p) {
			if c.logger != nil {
				c.logger.Debug("Sender is blocked",
					zap.String("pattern", p),
					zap.String("from", from))
			}
			return true
		}
	}
	return false
}
