package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// tokenCookies are the plaintext cookie names checked before falling back
// to the encrypted session cookie, in order.
var tokenCookies = []string{"aninkafashion-token", "aninkafashion_token", "TOKEN"}

// Resolver recovers a caller's bearer token from request material: the
// Authorization header, a plaintext token cookie (or body field), or the
// storefront's encrypted session cookie. Resolution never returns an error;
// every failure degrades to "no credential".
type Resolver struct {
	key           []byte
	sessionCookie string
}

// NewResolver creates a Resolver from the shared application secret and the
// encrypted session cookie name. The secret may carry a "base64:" prefix;
// an empty or undecodable secret disables session-cookie decryption but
// leaves the header and plaintext-cookie sources working.
func NewResolver(appKey, sessionCookie string) *Resolver {
	if sessionCookie == "" {
		sessionCookie = "aninka_session"
	}
	var key []byte
	if appKey != "" {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(appKey, "base64:"))
		if err != nil {
			slog.Warn("auth: app key is not valid base64, session cookie decryption disabled", "error", err)
		} else {
			key = decoded
		}
	}
	return &Resolver{key: key, sessionCookie: sessionCookie}
}

// Resolve returns the caller's bearer token, or "" when no source yields one.
// Priority: Authorization header, then a token from the body or a plaintext
// cookie, then the encrypted session cookie.
func (r *Resolver) Resolve(authHeader, bodyToken string, cookies map[string]string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(authHeader, prefix) {
		if token := strings.TrimSpace(authHeader[len(prefix):]); token != "" {
			return token
		}
	}

	plain := bodyToken
	if plain == "" {
		for _, name := range tokenCookies {
			if v, ok := cookies[name]; ok && v != "" {
				plain = v
				break
			}
		}
	}
	if plain != "" {
		// A value already carrying the access-token separator is used verbatim;
		// anything else is treated as an encrypted cookie payload.
		if strings.Contains(plain, "|") {
			return plain
		}
		if token := r.tokenFromEncrypted(plain); token != "" {
			return token
		}
	}

	if enc, ok := cookies[r.sessionCookie]; ok && enc != "" {
		return r.tokenFromEncrypted(enc)
	}
	return ""
}

// tokenFromEncrypted decrypts an encrypted cookie value and recovers the
// bearer token from its pipe-delimited plaintext. Returns "" on any failure.
func (r *Resolver) tokenFromEncrypted(cookie string) string {
	plaintext, err := r.decryptCookie(cookie)
	if err != nil {
		slog.Warn("auth: session cookie decryption failed", "error", err)
		return ""
	}
	return splitToken(plaintext)
}

// splitToken applies the session plaintext heuristic: a 3-field value drops
// the leading field, a 2-field value is used whole, anything else passes
// through unmodified.
func splitToken(plaintext string) string {
	parts := strings.Split(plaintext, "|")
	switch len(parts) {
	case 3:
		return parts[1] + "|" + parts[2]
	case 2:
		return plaintext
	default:
		return plaintext
	}
}

// cookiePayload is the base64-wrapped JSON envelope of an encrypted cookie.
type cookiePayload struct {
	IV    string `json:"iv"`
	Value string `json:"value"`
	MAC   string `json:"mac"`
}

// decryptCookie reverses the storefront cookie scheme: base64 JSON envelope,
// HMAC-SHA256 over the base64 iv and value strings verified against the
// supplied mac, then AES-256-CBC decryption. The MAC is checked before any
// decryption is attempted.
func (r *Resolver) decryptCookie(cookie string) (string, error) {
	if len(r.key) == 0 {
		return "", fmt.Errorf("no app key configured")
	}

	raw, err := base64.StdEncoding.DecodeString(cookie)
	if err != nil {
		return "", fmt.Errorf("decoding cookie: %w", err)
	}
	var payload cookiePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("parsing cookie payload: %w", err)
	}

	mac := hmac.New(sha256.New, r.key)
	mac.Write([]byte(payload.IV + payload.Value))
	expected := hex.EncodeToString(mac.Sum(nil))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(payload.MAC)) != 1 {
		return "", fmt.Errorf("mac mismatch")
	}

	iv, err := base64.StdEncoding.DecodeString(payload.IV)
	if err != nil {
		return "", fmt.Errorf("decoding iv: %w", err)
	}
	value, err := base64.StdEncoding.DecodeString(payload.Value)
	if err != nil {
		return "", fmt.Errorf("decoding value: %w", err)
	}

	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	if len(iv) != block.BlockSize() {
		return "", fmt.Errorf("iv length %d, want %d", len(iv), block.BlockSize())
	}
	if len(value) == 0 || len(value)%block.BlockSize() != 0 {
		return "", fmt.Errorf("ciphertext length %d is not a block multiple", len(value))
	}

	plaintext := make([]byte, len(value))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, value)

	unpadded, err := stripPKCS7(plaintext, block.BlockSize())
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func stripPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > blockSize || pad > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-pad], nil
}
