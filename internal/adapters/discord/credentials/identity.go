package credentials

import "net/http"

const (
	DefaultCookieURL = "https://discord.com/channels/@me"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) discord/153481 Chrome/83.0.4103.122 Electron/9.3.5 Safari/537.36"
)

// SuperProperties is the client fingerprint sent base64-encoded in the
// x-super-properties header.
type SuperProperties struct {
	OS                string  `json:"os"`
	Browser           string  `json:"browser"`
	ReleaseChannel    string  `json:"release_channel"`
	ClientVersion     string  `json:"client_version"`
	OSVersion         string  `json:"os_version"`
	OSArch            string  `json:"os_arch"`
	SystemLocale      string  `json:"system_locale"`
	ClientBuildNumber string  `json:"client_build_number"`
	ClientEventSource *string `json:"client_event_source"`
}

// DeviceProperties are sent with the gateway identify frame.
type DeviceProperties struct {
	OS      string `json:"$os"`
	Browser string `json:"$browser"`
	Device  string `json:"$device"`
}

// Identity is how the client presents itself to the platform. Build it once
// and share it; nothing mutates it after construction.
type Identity struct {
	UserAgent       string
	DebugOptions    string
	AcceptEncoding  string
	CookieURL       string
	SuperProperties SuperProperties
	Device          DeviceProperties
}

func DefaultIdentity() Identity {
	return Identity{
		UserAgent:      DefaultUserAgent,
		DebugOptions:   "bugReporterEnabled",
		AcceptEncoding: "gzip, deflate",
		CookieURL:      DefaultCookieURL,
		SuperProperties: SuperProperties{
			OS:                "Windows",
			Browser:           "Discord Client",
			ReleaseChannel:    "stable",
			ClientVersion:     "1.5.3481",
			OSVersion:         "10.0.19043",
			OSArch:            "x64",
			SystemLocale:      "en-US",
			ClientBuildNumber: "153481",
		},
		Device: DeviceProperties{
			OS:      "Windows",
			Browser: "disco",
			Device:  "disco",
		},
	}
}

// DefaultHeaders returns a fresh copy of the headers sent with every request,
// authenticated or not.
func (i Identity) DefaultHeaders() http.Header {
	h := make(http.Header, 4)
	h.Set("User-Agent", i.UserAgent)
	h.Set("X-Debug-Options", i.DebugOptions)
	h.Set("Accept-Encoding", i.AcceptEncoding)
	h.Set("Connection", "keep-alive")
	return h
}
