package redis

import (
	"testing"
	"time"
)

func TestConfigPingTimeout(t *testing.T) {
	if got := (Config{}).pingTimeout(); got != defaultTimeout {
		t.Fatalf("zero timeout: got %v, want %v", got, defaultTimeout)
	}
	if got := (Config{Timeout: time.Second}).pingTimeout(); got != time.Second {
		t.Fatalf("explicit timeout ignored: got %v", got)
	}
}
