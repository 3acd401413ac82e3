// Package meta holds the flat key/value map behind the settings collection.
package meta

import (
    "bytes"
    "encoding/json"
    "fmt"
    "sort"
)

// Metadata is a flat string map with size limits and key-ordered JSON.
type Metadata map[string]string

// Limits enforced by Validate.
const (
    MaxPairs     = 32
    MaxKeyLen    = 64
    MaxValLen    = 256
    MaxTotalJSON = 8192
)

// New copies m; a nil map gives an empty Metadata.
func New(m map[string]string) Metadata {
    out := make(Metadata, len(m))
    for k, v := range m { out[k] = v }
    return out
}

func (m Metadata) Clone() Metadata { return New(m) }

// WithDefaults returns a copy of m where every key missing from m is taken from defaults.
func (m Metadata) WithDefaults(defaults Metadata) Metadata {
    out := defaults.Clone()
    for k, v := range m { out[k] = v }
    return out
}

// Keys returns the keys in sorted order.
func (m Metadata) Keys() []string {
    keys := make([]string, 0, len(m))
    for k := range m { keys = append(keys, k) }
    sort.Strings(keys)
    return keys
}

// Validate checks the pair count, key and value lengths, and the encoded size.
func (m Metadata) Validate() error {
    if len(m) > MaxPairs { return fmt.Errorf("too many settings (%d > %d)", len(m), MaxPairs) }
    for _, k := range m.Keys() {
        if k == "" || len(k) > MaxKeyLen { return fmt.Errorf("setting key %q must be 1-%d bytes", k, MaxKeyLen) }
        if len(m[k]) > MaxValLen { return fmt.Errorf("setting %q exceeds %d bytes", k, MaxValLen) }
    }
    if b, _ := m.MarshalJSON(); len(b) > MaxTotalJSON {
        return fmt.Errorf("settings exceed %d bytes encoded", MaxTotalJSON)
    }
    return nil
}

// MarshalJSON writes keys in sorted order so equal maps encode identically.
func (m Metadata) MarshalJSON() ([]byte, error) {
    var buf bytes.Buffer
    buf.WriteByte('{')
    for i, k := range m.Keys() {
        if i > 0 { buf.WriteByte(',') }
        kb, _ := json.Marshal(k)
        vb, _ := json.Marshal(m[k])
        buf.Write(kb)
        buf.WriteByte(':')
        buf.Write(vb)
    }
    buf.WriteByte('}')
    return buf.Bytes(), nil
}

func (m *Metadata) UnmarshalJSON(b []byte) error {
    if bytes.Equal(bytes.TrimSpace(b), []byte("null")) { *m = Metadata{}; return nil }
    var tmp map[string]string
    if err := json.Unmarshal(b, &tmp); err != nil { return err }
    *m = New(tmp)
    return nil
}
