package mongo

import (
	"testing"
	"time"
)

func TestConfigDialTimeout(t *testing.T) {
	if got := (Config{}).dialTimeout(); got != defaultTimeout {
		t.Fatalf("zero timeout: got %v, want %v", got, defaultTimeout)
	}
	if got := (Config{Timeout: 2 * time.Second}).dialTimeout(); got != 2*time.Second {
		t.Fatalf("explicit timeout ignored: got %v", got)
	}
	if got := (Config{Timeout: -time.Second}).dialTimeout(); got != defaultTimeout {
		t.Fatalf("negative timeout: got %v, want %v", got, defaultTimeout)
	}
}
