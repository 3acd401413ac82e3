package v1

import (
    "mime"
    "net/http"
    "strings"
)

// mediaType returns the lowercased media type of the request body, without parameters.
func mediaType(r *http.Request) string {
    ct := r.Header.Get("Content-Type")
    if ct == "" { return "" }
    mt, _, err := mime.ParseMediaType(ct)
    if err != nil { return strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0])) }
    return mt
}

// requireJSON writes 415 and returns false unless the body is application/json.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
    if mediaType(r) != "application/json" {
        writeErr(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "unsupported_media_type")
        return false
    }
    return true
}
