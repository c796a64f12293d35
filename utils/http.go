// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is used for remote CSV fetches (participant import URLs and the
// published rosters). Those are small text files; 30s is generous.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// WebhookClient is used for the optional sheet-sync webhook. The webhook is
// never allowed to slow down the primary write, hence the short timeout.
var WebhookClient = &http.Client{
	Timeout: 5 * time.Second,
}
