package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRateLimitKey(t *testing.T) {
	assert.Equal(t, "ip:203.0.113.7:checkout", NewRateLimitKey(KeyPrefixIP, "203.0.113.7", ClassCheckout))
	assert.Equal(t, "ip:__1:reading", NewRateLimitKey(KeyPrefixIP, "::1", ClassReading))
}

func TestEndpointClassIsValid(t *testing.T) {
	assert.True(t, ClassWebhook.IsValid())
	assert.False(t, EndpointClass("admin").IsValid())
}
