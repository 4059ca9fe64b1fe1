package aliexpress

import (
	"strings"
	"testing"
)

const testMethod = "aliexpress.affiliate.link.generate"

func TestSignKnownVector(t *testing.T) {
	// HMAC-SHA256 over
	// "aliexpress.affiliate.link.generateapp_key12345sign_methodsha256timestamp1700000000000secret"
	// keyed with "secret". Pins the canonical string shape: method prefix,
	// sorted key+value pairs, trailing secret.
	params := map[string]string{
		"app_key":     "12345",
		"sign_method": "sha256",
		"timestamp":   "1700000000000",
	}
	want := "5F3D836DE392C998A50A55C1B4EC7DD23E641BC1FD1593DF43B2C7F52D644BF5"
	if got := Sign(params, testMethod, "secret"); got != want {
		t.Fatalf("Sign = %s, want %s", got, want)
	}
}

func TestSignDeterministic(t *testing.T) {
	params := map[string]string{
		"app_key":     "12345",
		"timestamp":   "1700000000000",
		"sign_method": "sha256",
	}
	a := Sign(params, testMethod, "secret")
	b := Sign(params, testMethod, "secret")
	if a != b {
		t.Fatalf("signature not deterministic: %s != %s", a, b)
	}
}

func TestSignOutputShape(t *testing.T) {
	sig := Sign(map[string]string{"a": "1"}, testMethod, "secret")
	if len(sig) != 64 {
		t.Fatalf("signature length = %d, want 64 hex chars", len(sig))
	}
	if sig != strings.ToUpper(sig) {
		t.Fatalf("signature not uppercase: %s", sig)
	}
	for _, r := range sig {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			t.Fatalf("non-hex rune %q in signature %s", r, sig)
		}
	}
}

func TestSignOrderSensitivity(t *testing.T) {
	// Naive concatenation would make {a:"1",b:"2"} and {a:"12",b:""} collide
	// once empty values are stripped ("a1b2" vs "a12"). They must not.
	a := Sign(map[string]string{"a": "1", "b": "2"}, testMethod, "secret")
	b := Sign(map[string]string{"a": "12", "b": ""}, testMethod, "secret")
	if a == b {
		t.Fatal("signatures collide across different parameter maps")
	}
}

func TestSignAnyValueChangeChangesSignature(t *testing.T) {
	base := map[string]string{"app_key": "12345", "timestamp": "1700000000000"}
	ref := Sign(base, testMethod, "secret")
	for k := range base {
		mutated := map[string]string{}
		for kk, vv := range base {
			mutated[kk] = vv
		}
		mutated[k] += "x"
		if Sign(mutated, testMethod, "secret") == ref {
			t.Fatalf("changing %q did not change the signature", k)
		}
	}
}

func TestSignEmptyValueEqualsAbsent(t *testing.T) {
	withEmpty := Sign(map[string]string{"a": "1", "b": ""}, testMethod, "secret")
	without := Sign(map[string]string{"a": "1"}, testMethod, "secret")
	if withEmpty != without {
		t.Fatal("empty value signed differently from absent key")
	}
}

func TestSignSecretChangesSignature(t *testing.T) {
	params := map[string]string{"a": "1"}
	if Sign(params, testMethod, "secret1") == Sign(params, testMethod, "secret2") {
		t.Fatal("different secrets produced identical signatures")
	}
}
