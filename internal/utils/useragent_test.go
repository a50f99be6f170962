package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserAgent_Empty(t *testing.T) {
	info := ParseUserAgent("")
	assert.Equal(t, "unknown", info.DeviceType)
	assert.Equal(t, "Unknown", info.Browser)

	assert.Equal(t, info, ParseUserAgent("Unknown"))
}

func TestParseUserAgent_Desktop(t *testing.T) {
	info := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	assert.Equal(t, "desktop", info.DeviceType)
	assert.Equal(t, "Chrome", info.Browser)
	assert.Equal(t, "120.0.0.0", info.BrowserVer)
	assert.Contains(t, info.OS, "Windows")
	assert.False(t, info.IsBot)
}

func TestParseUserAgent_Mobile(t *testing.T) {
	info := ParseUserAgent("Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36")

	assert.Equal(t, "mobile", info.DeviceType)
	assert.Contains(t, info.OS, "Android")
}

func TestParseUserAgent_Tablet(t *testing.T) {
	info := ParseUserAgent("Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1")

	assert.Equal(t, "tablet", info.DeviceType)
}

func TestParseUserAgent_Bot(t *testing.T) {
	info := ParseUserAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")

	assert.True(t, info.IsBot)
}
