package app

import (
	"net/url"
	"strings"
)

// MinTokenLen is exclusive: a token must be longer than this.
const MinTokenLen = 10

// ValidToken reports whether t is long enough to be a calendar token.
func ValidToken(t string) bool {
	return len(t) > MinTokenLen
}

// TokenFromAddress extracts the calendar token from an address or pasted
// link: the fragment after '#' when it is a valid token, else the last path
// segment. It returns "" when neither is a valid token.
func TokenFromAddress(addr string) string {
	u, err := url.Parse(strings.TrimSpace(addr))
	if err != nil {
		return ""
	}
	if tok := strings.TrimSpace(u.Fragment); ValidToken(tok) {
		return tok
	}
	path := strings.TrimRight(u.Path, "/")
	tok := strings.TrimSpace(path[strings.LastIndexByte(path, '/')+1:])
	if !ValidToken(tok) {
		return ""
	}
	return tok
}

// ShareLink builds the link that opens token: origin + path + "#" + token.
func ShareLink(origin, path, token string) string {
	if token == "" {
		return ""
	}
	return origin + path + "#" + token
}
