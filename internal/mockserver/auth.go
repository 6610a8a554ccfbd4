package mockserver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	HeaderRequestJWT = "X-Shopify-Request-Jwt"
	HeaderRequestID  = "X-Shopify-Request-Id"
)

var ErrUnauthorized = errors.New("unauthorized")

// Verifier checks the signed JWT the host attaches to every fetch request.
// The token binds method, url, selected headers and body by SHA-256.
type Verifier struct {
	Secret       []byte
	Headers      []string
	ShopID       int64
	SkipURLCheck bool
}

func NewVerifier(cfg Config) *Verifier {
	return &Verifier{
		Secret:       []byte(cfg.ClientSecret),
		Headers:      cfg.JWTHeaders,
		ShopID:       cfg.ShopID,
		SkipURLCheck: cfg.Development(),
	}
}

// Verify returns the request id bound into the token.
func (v *Verifier) Verify(r *http.Request, body []byte) (string, error) {
	raw := r.Header.Get(HeaderRequestJWT)
	if raw == "" {
		return "", fmt.Errorf("%w: missing %s", ErrUnauthorized, HeaderRequestJWT)
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithJSONNumber())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if claimString(claims, "method") != r.Method {
		return "", fmt.Errorf("%w: JWT invalid method", ErrUnauthorized)
	}
	if !v.SkipURLCheck && claimString(claims, "url_sha256") != hashHex(fullURL(r)) {
		return "", fmt.Errorf("%w: JWT invalid url", ErrUnauthorized)
	}
	if claimString(claims, "headers_sha256") != hashHex(v.canonicalHeaders(r.Header)) {
		return "", fmt.Errorf("%w: JWT invalid headers", ErrUnauthorized)
	}
	if len(body) > 0 && claimString(claims, "body_sha256") != hashHex(string(body)) {
		return "", fmt.Errorf("%w: JWT invalid body", ErrUnauthorized)
	}
	if claimString(claims, "iss") != strconv.FormatInt(v.ShopID, 10) {
		return "", fmt.Errorf("%w: JWT invalid issuer shop", ErrUnauthorized)
	}

	requestID := r.Header.Get(HeaderRequestID)
	if claimString(claims, "x_shopify_request_id") != requestID {
		return "", fmt.Errorf("%w: JWT invalid x_shopify_request_id", ErrUnauthorized)
	}
	return requestID, nil
}

// Sign produces the token the host would attach to r. It is how tests and
// local tooling talk to the server.
func (v *Verifier) Sign(r *http.Request, body []byte, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"method":               r.Method,
		"url_sha256":           hashHex(fullURL(r)),
		"headers_sha256":       hashHex(v.canonicalHeaders(r.Header)),
		"iss":                  v.ShopID,
		"x_shopify_request_id": r.Header.Get(HeaderRequestID),
		"exp":                  time.Now().Add(ttl).Unix(),
	}
	if len(body) > 0 {
		claims["body_sha256"] = hashHex(string(body))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.Secret)
}

func (v *Verifier) canonicalHeaders(h http.Header) string {
	var parts []string
	for name, values := range h {
		lower := strings.ToLower(name)
		if !contains(v.Headers, lower) {
			continue
		}
		parts = append(parts, lower+":"+strings.Join(values, ", "))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func fullURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func claimString(c jwt.MapClaims, key string) string {
	switch v := c[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func hashHex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
