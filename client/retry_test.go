package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoublingRetryStrategy_DoublesAndClamps(t *testing.T) {
	s := NewDoublingRetryStrategy(time.Second, 8*time.Second)
	assert.Equal(t, time.Second, s.AfterFailedConnect())
	assert.Equal(t, 2*time.Second, s.AfterFailedConnect())
	assert.Equal(t, 4*time.Second, s.AfterFailedConnect())
	assert.Equal(t, 8*time.Second, s.AfterFailedConnect())
	assert.Equal(t, 8*time.Second, s.AfterFailedConnect())
}

func TestDoublingRetryStrategy_ResetReturnsToMin(t *testing.T) {
	s := NewDoublingRetryStrategy(time.Second, 8*time.Second)
	s.AfterFailedConnect()
	s.AfterFailedConnect()
	s.Reset()
	assert.Equal(t, time.Second, s.AfterFailedConnect())
}

func TestDoublingRetryStrategy_AfterDisconnectAlwaysMin(t *testing.T) {
	s := NewDoublingRetryStrategy(time.Second, 8*time.Second)
	s.AfterFailedConnect()
	s.AfterFailedConnect()
	assert.Equal(t, time.Second, s.AfterDisconnect())
	// the next failed-connect attempt starts from min again too
	assert.Equal(t, time.Second, s.AfterFailedConnect())
}
