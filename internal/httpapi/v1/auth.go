package v1

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// AuthConfig enables HS256 bearer tokens. An empty Issuer skips the iss check.
type AuthConfig struct {
    Secret string
    Issuer string
}

// Claims carried by API tokens.
type Claims struct {
    jwt.RegisteredClaims
}

// IssueToken signs a token for subject valid for ttl.
func IssueToken(cfg AuthConfig, subject string, ttl time.Duration) (string, error) {
    now := time.Now()
    claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
        Subject:   subject,
        Issuer:    cfg.Issuer,
        IssuedAt:  jwt.NewNumericDate(now),
        NotBefore: jwt.NewNumericDate(now),
        ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
    }}
    return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

func parseBearerToken(r *http.Request) (string, bool) {
    h := r.Header.Get("Authorization")
    scheme, tok, ok := strings.Cut(h, " ")
    if !ok || !strings.EqualFold(scheme, "Bearer") { return "", false }
    tok = strings.TrimSpace(tok)
    return tok, tok != ""
}

func verifyToken(tok string, cfg AuthConfig) (*Claims, error) {
    opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
    if cfg.Issuer != "" { opts = append(opts, jwt.WithIssuer(cfg.Issuer)) }
    claims := &Claims{}
    token, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) {
        return []byte(cfg.Secret), nil
    }, opts...)
    if err != nil { return nil, err }
    if !token.Valid { return nil, errors.New("invalid token") }
    return claims, nil
}

// openPath reports paths served without a token.
func openPath(p string) bool {
    switch p {
    case "/healthz", "/readyz", "/metrics":
        return true
    }
    return strings.HasPrefix(p, "/v1/dictionary/")
}

// authJWT enforces Authorization: Bearer <HS256 JWT> on every non-open path.
func authJWT(cfg AuthConfig) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            if openPath(r.URL.Path) { next.ServeHTTP(w, r); return }
            tok, ok := parseBearerToken(r)
            if !ok { writeErr(w, http.StatusUnauthorized, "missing bearer token", "unauthorized"); return }
            if _, err := verifyToken(tok, cfg); err != nil {
                writeErr(w, http.StatusUnauthorized, "invalid token", "unauthorized")
                return
            }
            next.ServeHTTP(w, r)
        })
    }
}
