// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// Shared client for chain gateway calls. The timeout doubles as the bound on
// how long a settlement transaction can stay open waiting on the gateway.
var HTTPClient = &http.Client{
	Timeout: 15 * time.Second,
}
