package logging

import (
	"fmt"
	"strings"
)

const redacted = "[REDACTED]"

var redactKeys = []string{
	"api_key",
	"apikey",
	"authorization",
	"password",
	"secret",
	"token",
}

func sanitizeKVs(kv []any) []any {
	if len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := toString(kv[i])
		out = append(out, key, sanitizeValue(strings.ToLower(strings.TrimSpace(key)), kv[i+1]))
	}
	return out
}

func sanitizeValue(key string, val any) any {
	if isRedactKey(key) {
		return redacted
	}
	if s, ok := val.(string); ok && looksLikeJWT(s) {
		return redacted
	}
	return val
}

func isRedactKey(key string) bool {
	for _, k := range redactKeys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}

// looksLikeJWT matches three dot-separated base64url segments with a JSON header.
func looksLikeJWT(s string) bool {
	if !strings.HasPrefix(s, "eyJ") && !strings.HasPrefix(s, "Bearer eyJ") {
		return false
	}
	return strings.Count(s, ".") == 2
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
