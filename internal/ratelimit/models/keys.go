package models

import "strings"

// KeyPrefix namespaces bucket keys.
type KeyPrefix string

const KeyPrefixIP KeyPrefix = "ip"

// SanitizeKeySegment escapes ':' so a crafted identifier cannot reach a
// neighbouring bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// NewRateLimitKey builds "<prefix>:<identifier>:<class>".
func NewRateLimitKey(prefix KeyPrefix, identifier string, class EndpointClass) string {
	return string(prefix) + ":" + SanitizeKeySegment(identifier) + ":" + string(class)
}
