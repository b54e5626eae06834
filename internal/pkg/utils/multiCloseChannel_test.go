package utils

import (
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalChannel(t *testing.T) {
	fc := NewSignalChannel()
	defer signal.Stop(fc.C)
	assert.Nil(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))
	select {
	case s := <-fc.C:
		assert.Equal(t, syscall.SIGINT, s)
	case <-time.After(2 * time.Second):
		t.Fatal("No signal received")
	}
}

func TestMultiClose(t *testing.T) {
	fc := NewMultiCloseChannel()
	fc.Close()
	fc.Close()
	_, opened := <-fc.C
	assert.False(t, opened)
}
