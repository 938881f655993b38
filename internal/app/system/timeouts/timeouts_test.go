package timeouts

import (
	"testing"
	"time"
)

func TestConfigureIgnoresZeroValues(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 20 * time.Second})

	if got := Short(); got != 20*time.Second {
		t.Errorf("Short: got %s, want 20s", got)
	}
	if got := Ping(); got != DefaultPing {
		t.Errorf("Ping should keep default, got %s", got)
	}
	if got := Medium(); got != DefaultMedium {
		t.Errorf("Medium should keep default, got %s", got)
	}
}

func TestReset(t *testing.T) {
	Configure(Config{Ping: time.Minute, Short: time.Minute, Medium: time.Minute})
	Reset()

	if Ping() != DefaultPing || Short() != DefaultShort || Medium() != DefaultMedium {
		t.Error("Reset did not restore defaults")
	}
}
