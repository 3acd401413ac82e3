package v1

import (
    "bytes"
    "fmt"
    "net/http"
    "strings"

    "github.com/tinoosan/fintrack/internal/service/backup"
)

const maxBackupBytes = 32 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// codecForRequest picks the import codec from ?format= first, then the Content-Type.
func codecForRequest(r *http.Request) (backup.Codec, bool) {
    if f := r.URL.Query().Get("format"); f != "" { return backup.CodecFor(f) }
    switch mt := mediaType(r); {
    case mt == "", mt == "application/json":
        return backup.JSONCodec{}, true
    case strings.Contains(mt, "yaml"):
        return backup.YAMLCodec{}, true
    }
    return nil, false
}

func attachment(w http.ResponseWriter, contentType, name string) {
    w.Header().Set("Content-Type", contentType)
    w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

// GET /v1/backup?format=json|yaml
func (s *Server) exportBackup(w http.ResponseWriter, r *http.Request) {
    codec, ok := backup.CodecFor(r.URL.Query().Get("format"))
    if !ok { badRequest(w, "format must be json or yaml"); return }
    doc, err := s.backup.Export(r.Context())
    if err != nil { s.writeServiceErr(w, r, err); return }
    var buf bytes.Buffer
    if err := codec.Encode(&buf, doc); err != nil { s.writeServiceErr(w, r, err); return }
    name := "fintrack-backup-" + doc.ExportDate.Format("2006-01-02") + "." + codec.Name()
    attachment(w, codec.ContentType(), name)
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(buf.Bytes())
}

// POST /v1/backup replaces the whole store with the uploaded document.
func (s *Server) importBackup(w http.ResponseWriter, r *http.Request) {
    codec, ok := codecForRequest(r)
    if !ok {
        writeErr(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "unsupported_media_type")
        return
    }
    doc, err := codec.Decode(http.MaxBytesReader(w, r.Body, maxBackupBytes))
    if err != nil { s.writeServiceErr(w, r, err); return }
    res, err := s.backup.Import(r.Context(), doc)
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, res)
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
    txs, err := s.backup.Transactions(r.Context())
    if err != nil { s.writeServiceErr(w, r, err); return }
    var buf bytes.Buffer
    if err := backup.WriteCSV(&buf, txs); err != nil { s.writeServiceErr(w, r, err); return }
    attachment(w, "text/csv", "transactions-"+s.now().Format("2006-01-02")+".csv")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(buf.Bytes())
}

func (s *Server) exportXLSX(w http.ResponseWriter, r *http.Request) {
    txs, err := s.backup.Transactions(r.Context())
    if err != nil { s.writeServiceErr(w, r, err); return }
    var buf bytes.Buffer
    if err := backup.WriteXLSX(&buf, txs); err != nil { s.writeServiceErr(w, r, err); return }
    attachment(w, xlsxContentType, "transactions-"+s.now().Format("2006-01-02")+".xlsx")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(buf.Bytes())
}

// POST /v1/reset clears every collection and re-seeds the defaults.
func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
    if err := s.backup.Reset(r.Context()); err != nil { s.writeServiceErr(w, r, err); return }
    w.WriteHeader(http.StatusNoContent)
}
