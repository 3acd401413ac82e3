package meta

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
)

func TestCloneIsIndependent(t *testing.T) {
	settings := New(map[string]string{"currency": "BDT", "theme": "dark"})
	cloned := settings.Clone()
	delete(settings, "currency")
	if cloned["currency"] != "BDT" || len(cloned) != 2 {
		t.Fatalf("clone shares storage with original: %+v", cloned)
	}
	if got := New(nil); got == nil || len(got) != 0 {
		t.Fatalf("New(nil) should be empty and writable")
	}
}

func TestWithDefaults(t *testing.T) {
	got := New(map[string]string{"theme": "dark"}).WithDefaults(New(map[string]string{"theme": "system", "language": "en"}))
	if got["theme"] != "dark" || got["language"] != "en" {
		t.Fatalf("unexpected merge: %+v", got)
	}
}

func TestValidationLimits(t *testing.T) {
	pairs := make(map[string]string)
	for i := 0; i < MaxPairs+1; i++ {
		pairs["k"+strconv.Itoa(i)] = "v"
	}
	if err := New(pairs).Validate(); err == nil {
		t.Fatalf("expected too many pairs")
	}
	if err := New(map[string]string{strings.Repeat("k", MaxKeyLen+1): "v"}).Validate(); err == nil {
		t.Fatalf("expected key too long")
	}
	if err := New(map[string]string{"": "v"}).Validate(); err == nil {
		t.Fatalf("expected empty key rejected")
	}
	if err := New(map[string]string{"k": strings.Repeat("v", MaxValLen+1)}).Validate(); err == nil {
		t.Fatalf("expected value too long")
	}
}

func TestJSONIsKeyOrdered(t *testing.T) {
	settings := New(map[string]string{"theme": "dark", "currency": "USD"})
	b, err := json.Marshal(settings)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"currency":"USD","theme":"dark"}` {
		t.Fatalf("unexpected json: %s", string(b))
	}
	var back Metadata
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["theme"] != "dark" || back.Validate() != nil {
		t.Fatalf("unexpected decode: %+v", back)
	}
	if err := json.Unmarshal([]byte("null"), &back); err != nil || back == nil || len(back) != 0 {
		t.Fatalf("null should decode to an empty map, got %+v (%v)", back, err)
	}
}
