package backup

import (
    "encoding/json"
    "fmt"
    "io"
    "strings"

    "github.com/tinoosan/fintrack/internal/errs"
    "gopkg.in/yaml.v3"
)

// Codec reads and writes a backup Document in one file format.
type Codec interface {
    Name() string
    ContentType() string
    Encode(w io.Writer, d Document) error
    Decode(r io.Reader) (Document, error)
}

type JSONCodec struct{}

func (JSONCodec) Name() string        { return "json" }
func (JSONCodec) ContentType() string { return "application/json" }

func (JSONCodec) Encode(w io.Writer, d Document) error {
    enc := json.NewEncoder(w)
    enc.SetIndent("", "  ")
    return enc.Encode(d)
}

func (JSONCodec) Decode(r io.Reader) (Document, error) {
    var d Document
    if err := json.NewDecoder(r).Decode(&d); err != nil {
        return Document{}, fmt.Errorf("%v: %w", err, errs.ErrInvalidBackup)
    }
    return d, nil
}

type YAMLCodec struct{}

func (YAMLCodec) Name() string        { return "yaml" }
func (YAMLCodec) ContentType() string { return "application/yaml" }

func (YAMLCodec) Encode(w io.Writer, d Document) error {
    enc := yaml.NewEncoder(w)
    enc.SetIndent(2)
    if err := enc.Encode(d); err != nil { return err }
    return enc.Close()
}

func (YAMLCodec) Decode(r io.Reader) (Document, error) {
    var d Document
    if err := yaml.NewDecoder(r).Decode(&d); err != nil {
        return Document{}, fmt.Errorf("%v: %w", err, errs.ErrInvalidBackup)
    }
    return d, nil
}

// CodecFor picks a codec by format name; empty means JSON.
func CodecFor(format string) (Codec, bool) {
    switch strings.ToLower(strings.TrimSpace(format)) {
    case "", "json":
        return JSONCodec{}, true
    case "yaml", "yml":
        return YAMLCodec{}, true
    }
    return nil, false
}
