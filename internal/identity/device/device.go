package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Label turns a User-Agent header into a short display name such as
// "Chrome on Intel Mac OS X 10_15_7". It is attached to sign-in results and
// audit events so users can recognise their sessions.
func Label(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return "Unknown Device"
	}
	ua := useragent.New(userAgent)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	os := ua.OS()
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
