package akademik

import (
	"bytes"
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// the portal's landing page links to the SSO endpoint when the session
// cookie is dead.
var loginMarker = []byte("myitsauth.php")

// CheckSession probes the authenticated landing page once. any network
// error counts as invalid, this check fails closed and is never
// retried.
func (c *Client) CheckSession(ctx context.Context, sessionID string) bool {
	ctx, span := tracer.Start(ctx, "client:CheckSession")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetCookie(sessionCookie(sessionID)).
		Get("/home.php")
	if err != nil {
		span.SetAttributes(attribute.Bool("valid", false))
		return false
	}
	// a 503 or a challenge page proves nothing about the session,
	// only a clean landing page counts
	if res.StatusCode() != http.StatusOK {
		span.SetAttributes(attribute.Bool("valid", false))
		return false
	}

	valid := !bytes.Contains(res.Body(), loginMarker)
	span.SetAttributes(attribute.Bool("valid", valid))
	return valid
}
