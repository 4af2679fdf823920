// File: internal/usecase/claim_url.go
package usecase

import (
	"fmt"
	"net/url"
)

// ClaimURL builds the externally hosted claim page URL for a code. The id
// rides in a ?code= query parameter; this is what the QR artifact encodes.
func ClaimURL(baseURL, id string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse claim base url: %w", err)
	}
	q := u.Query()
	q.Set("code", id)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
