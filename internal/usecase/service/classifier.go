package service

import (
	"strings"

	"github.com/tidwall/gjson"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/usecase"
)

// oauthExpiredCode is the vendor OAuth error code signalling an invalid or
// expired access token.
const oauthExpiredCode = 190

// Classify maps the raw call-result set of one fetch run onto the error
// taxonomy. Precedence is load-bearing and must not be reordered:
//
//  1. credential expiry: any failed call carrying an expiry signal. Checked
//     first because expired credentials often also make the account endpoint
//     unreachable, which would otherwise read as "no account".
//  2. explicit no-account message: on Instagram it overrides partial-success
//     tolerance; elsewhere it only counts when no call succeeded.
//  3. total failure: no call succeeded. "No account" when nothing is
//     connected, generic failure otherwise.
//  4. partial failure: some calls failed, data from the rest still renders.
//
// Returns nil when every call succeeded.
func Classify(raw *entity.RawBundle, connectedAccounts int) error {
	if raw == nil || len(raw.Results) == 0 {
		return usecase.ErrGenericFailure
	}

	for _, result := range raw.Results {
		if result.Success {
			continue
		}
		if hasExpirySignal(result) {
			return usecase.ErrCredentialExpired
		}
	}
	// Only Instagram reports missing accounts through an error message on an
	// otherwise partially working fetch. For other platforms the message is
	// just one failed call: partial data still renders, and a total failure
	// is judged by the connected-account count below.
	for _, result := range raw.Results {
		if result.Success {
			continue
		}
		if raw.Platform != entity.PlatformInstagram && raw.AnySuccess() {
			continue
		}
		if strings.Contains(strings.ToLower(errorMessage(result)), "no account") {
			return usecase.ErrNoAccountConnected
		}
	}

	if !raw.AnySuccess() {
		if connectedAccounts == 0 {
			return usecase.ErrNoAccountConnected
		}
		return usecase.ErrGenericFailure
	}
	if raw.Failed() > 0 {
		return usecase.ErrPartialFailure
	}
	return nil
}

func hasExpirySignal(result entity.CallResult) bool {
	msg := strings.ToLower(errorMessage(result))
	if strings.Contains(msg, "expired") {
		return true
	}
	if result.Err != nil && strings.Contains(strings.ToLower(result.Err.Error()), "expired") {
		return true
	}
	return errorCode(result) == oauthExpiredCode
}

// errorMessage digs the human-readable message out of the known upstream
// error shapes: {"error": "..."}, {"error": {"message": ...}} and the doubly
// nested {"error": {"error": {"message": ...}}}.
func errorMessage(result entity.CallResult) string {
	if len(result.Body) == 0 {
		return ""
	}
	body := gjson.ParseBytes(result.Body)
	for _, path := range []string{"error.error.message", "error.message", "error", "message"} {
		if v := body.Get(path); v.Exists() && v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}

func errorCode(result entity.CallResult) int {
	if len(result.Body) == 0 {
		return 0
	}
	body := gjson.ParseBytes(result.Body)
	for _, path := range []string{"error.error.code", "error.code", "code"} {
		if v := body.Get(path); v.Exists() {
			return int(v.Int())
		}
	}
	return 0
}
