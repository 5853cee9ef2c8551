package utils

import (
	"fmt"
	"strings"

	ua "github.com/mileusna/useragent"
)

// ParseUserAgent extracts browser, OS and device class from a User-Agent string
func ParseUserAgent(userAgent string) (browser, os, device string) {
	if userAgent == "" {
		return "Unknown Browser", "Unknown OS", "Desktop"
	}

	parsed := ua.Parse(userAgent)

	browser = parsed.Name
	if browser == "" {
		browser = "Unknown Browser"
	}
	os = parsed.OS
	if os == "" {
		os = "Unknown OS"
	}

	device = "Desktop"
	switch {
	case parsed.Bot:
		device = "Bot"
	case parsed.Tablet:
		device = "Tablet"
	case parsed.Mobile:
		device = "Mobile"
	}

	return strings.TrimSpace(browser), strings.TrimSpace(os), device
}

func DeviceInfo(userAgent string) string {
	browser, os, device := ParseUserAgent(userAgent)
	return fmt.Sprintf("%s on %s (%s)", browser, os, device)
}
