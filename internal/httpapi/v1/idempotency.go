package v1

import (
    "bytes"
    "context"
    "crypto/sha256"
    "encoding/hex"
    "errors"
    "io"
    "net/http"
    "sync"
)

const (
    idempotencyCapacity = 1024
    maxTransactionBytes = 1 << 20
)

var errKeyReuse = errors.New("idempotency key reused with a different body")

// storedResponse is what a keyed create returned, replayed for retries with the same body.
type storedResponse struct {
    Status  int
    Payload []byte
}

// idemEntry is a reserved key. done is closed once the owning request finished;
// resp is set only when it succeeded.
type idemEntry struct {
    hash string
    done chan struct{}
    resp *storedResponse
}

// idempotencyStore remembers the last idempotencyCapacity keys,
// evicting the oldest key first.
type idempotencyStore struct {
    mu    sync.Mutex
    byKey map[string]*idemEntry
    order []string
    cap   int
}

func newIdempotencyStore(capacity int) *idempotencyStore {
    return &idempotencyStore{byKey: make(map[string]*idemEntry), cap: capacity}
}

// acquire either reserves key for the caller (owned is non-nil) or returns the
// response stored under it. A caller that finds the key in flight waits for the
// owner and then tries again, so at most one request per key reaches the handler.
func (s *idempotencyStore) acquire(ctx context.Context, key, hash string) (owned *idemEntry, replay storedResponse, err error) {
    for {
        s.mu.Lock()
        e, ok := s.byKey[key]
        if !ok {
            e = &idemEntry{hash: hash, done: make(chan struct{})}
            s.byKey[key] = e
            s.order = append(s.order, key)
            if len(s.order) > s.cap {
                delete(s.byKey, s.order[0])
                s.order = s.order[1:]
            }
            s.mu.Unlock()
            return e, storedResponse{}, nil
        }
        s.mu.Unlock()
        if e.hash != hash { return nil, storedResponse{}, errKeyReuse }
        select {
        case <-e.done:
        case <-ctx.Done():
            return nil, storedResponse{}, ctx.Err()
        }
        if e.resp != nil { return nil, *e.resp, nil }
    }
}

// finish records the owner's response, or frees the key when resp is nil.
func (s *idempotencyStore) finish(key string, e *idemEntry, resp *storedResponse) {
    s.mu.Lock()
    e.resp = resp
    if resp == nil && s.byKey[key] == e {
        delete(s.byKey, key)
        for i, k := range s.order {
            if k == key { s.order = append(s.order[:i], s.order[i+1:]...); break }
        }
    }
    s.mu.Unlock()
    close(e.done)
}

func hashBytes(b []byte) string {
    h := sha256.Sum256(b)
    return hex.EncodeToString(h[:])
}

// capture records a handler's status and body while still writing them through.
type capture struct {
    http.ResponseWriter
    status int
    body   bytes.Buffer
}

func (c *capture) WriteHeader(status int) { c.status = status; c.ResponseWriter.WriteHeader(status) }

func (c *capture) Write(b []byte) (int, error) {
    if c.status == 0 { c.status = http.StatusOK }
    c.body.Write(b)
    return c.ResponseWriter.Write(b)
}

// idempotent replays the stored response for a repeated Idempotency-Key with the same
// body and rejects a reused key whose body differs. Only 201 responses are kept; any
// other outcome frees the key for the next retry. Requests without the header pass through.
func (s *Server) idempotent(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        key := r.Header.Get("Idempotency-Key")
        if key == "" { next.ServeHTTP(w, r); return }
        raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTransactionBytes))
        if err != nil {
            var tooLarge *http.MaxBytesError
            if errors.As(err, &tooLarge) {
                writeErr(w, http.StatusRequestEntityTooLarge, "request body too large", "request_too_large")
                return
            }
            badRequest(w, "unreadable body")
            return
        }
        r.Body = io.NopCloser(bytes.NewReader(raw))
        entry, prev, err := s.idem.acquire(r.Context(), key, hashBytes(raw))
        switch {
        case errors.Is(err, errKeyReuse):
            writeErr(w, http.StatusConflict, err.Error(), "idempotency_key_reuse")
            return
        case err != nil:
            return
        case entry == nil:
            w.Header().Set("Content-Type", "application/json")
            w.Header().Set("Idempotent-Replay", "true")
            w.WriteHeader(prev.Status)
            _, _ = w.Write(prev.Payload)
            return
        }
        c := &capture{ResponseWriter: w}
        defer func() {
            if c.status == http.StatusCreated {
                s.idem.finish(key, entry, &storedResponse{Status: c.status, Payload: c.body.Bytes()})
            } else {
                s.idem.finish(key, entry, nil)
            }
        }()
        next.ServeHTTP(c, r)
    })
}
