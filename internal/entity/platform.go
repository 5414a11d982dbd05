package entity

import "fmt"

// Platform is a closed enumeration of the social platforms the service
// aggregates. Adding a platform means adding a variant here and registering
// an adapter for it in the orchestrator dispatch table.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformReddit    Platform = "reddit"
	// PlatformAll is a valid selection but carries no combined math:
	// it always resolves to the canonical empty snapshot.
	PlatformAll Platform = "all"
)

// Platforms lists every fetchable platform, in dashboard order.
var Platforms = []Platform{
	PlatformFacebook,
	PlatformInstagram,
	PlatformTwitter,
	PlatformReddit,
}

func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformFacebook, PlatformInstagram, PlatformTwitter, PlatformReddit, PlatformAll:
		return Platform(s), nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// RequiresAccount reports whether the platform needs an explicitly selected
// account before any fetch is attempted.
func (p Platform) RequiresAccount() bool {
	return p == PlatformInstagram || p == PlatformTwitter
}

func (p Platform) String() string {
	return string(p)
}
