package config

import (
	"fmt"
	"strings"
)

// OutputFormats lists the accepted values of the output setting.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	valid := false
	for _, f := range OutputFormats {
		if strings.EqualFold(c.OutputFormat, f) {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid output format %q\nHint: use one of %s", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Source != nil {
		if err := c.Source.Validate(); err != nil {
			return fmt.Errorf("invalid source configuration: %w", err)
		}
	}
	return nil
}
