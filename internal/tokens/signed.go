package tokens

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("invalid token signature")
	ErrUnknownAuthor  = errors.New("unknown author")
)

// Codec issues and verifies stateless HMAC-signed author tokens. A token is
// the URL-safe base64 encoding of "<author>:<HMAC-SHA256(secret, author)>".
// These tokens never expire; revocation means rotating the shared secret.
type Codec struct {
	secret  []byte
	authors map[string]bool
}

// NewCodec creates a codec for the given shared secret and allowed authors
func NewCodec(secret []byte, authors []string) *Codec {
	allowed := make(map[string]bool, len(authors))
	for _, a := range authors {
		allowed[a] = true
	}
	return &Codec{secret: secret, authors: allowed}
}

// Issue creates a signed token for an allowed author
func (c *Codec) Issue(author string) (string, error) {
	if !c.authors[author] {
		return "", ErrUnknownAuthor
	}

	payload := []byte(author)
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	sig := mac.Sum(nil)

	raw := make([]byte, 0, len(payload)+1+len(sig))
	raw = append(raw, payload...)
	raw = append(raw, ':')
	raw = append(raw, sig...)

	return base64.URLEncoding.EncodeToString(raw), nil
}

// Verify decodes a token, checks its signature in constant time, and returns
// the embedded author if it belongs to the allowed set
func (c *Codec) Verify(token string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrMalformedToken
	}

	sep := bytes.IndexByte(raw, ':')
	if sep < 0 {
		return "", ErrMalformedToken
	}
	payload, sig := raw[:sep], raw[sep+1:]

	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	if !hmac.Equal(expected, sig) {
		return "", ErrBadSignature
	}

	author := string(payload)
	if !c.authors[author] {
		return "", ErrUnknownAuthor
	}
	return author, nil
}
