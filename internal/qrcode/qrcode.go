// Package qrcode renders join links as QR code images.
package qrcode

import (
	"fmt"
	"net/url"
	"strings"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the image width and height in pixels.
const DefaultSize = 256

// JoinURL builds the link a player follows to join a session.
func JoinURL(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q needs a scheme and host", baseURL)
	}
	u = u.JoinPath("join")
	q := u.Query()
	q.Set("session", sessionID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// JoinPNG returns a PNG QR code for the session's join link.
func JoinPNG(baseURL, sessionID string, size int) ([]byte, error) {
	link, err := JoinURL(baseURL, sessionID)
	if err != nil {
		return nil, err
	}
	png, err := qr.Encode(link, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
