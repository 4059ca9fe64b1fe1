package aliexpress

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign computes the request signature the gateway recomputes and compares on
// its side: HMAC-SHA256 keyed with the app secret over
//
//	method + k1v1k2v2... + secret
//
// with parameters sorted by key in byte order, rendered as uppercase hex.
// Empty values are excluded from the signed string entirely; a parameter that
// is absent and one that is empty must sign identically.
func Sign(params map[string]string, method, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(method)
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(params[k])
	}
	sb.WriteString(secret)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sb.String()))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}
