package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid config")

func (c Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT %d out of range: %w", c.ServerPort, ErrInvalidConfig)
	}
	if c.DatabaseURL != "" {
		if err := NonEmptyBytes(c.SessionSecret, "SESSION_SECRET"); err != nil {
			return err
		}
	}
	if c.ESURL != "" {
		if err := NonEmpty(c.ESIndex, "ES_INDEX"); err != nil {
			return err
		}
	}
	return nil
}

func NonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("missing required env %s: %w", envName, ErrInvalidConfig)
	}
	return nil
}

func NonEmptyBytes(value []byte, envName string) error {
	if len(value) == 0 {
		return fmt.Errorf("missing required env %s: %w", envName, ErrInvalidConfig)
	}
	return nil
}
