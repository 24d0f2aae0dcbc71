package schemas

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var intentJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeLaunchIntent serializes an intent for the store's intent column.
// A nil intent encodes as the empty string.
func EncodeLaunchIntent(intent *LaunchIntent) (string, error) {
	if intent == nil {
		return "", nil
	}
	out, err := intentJSON.MarshalToString(intent)
	if err != nil {
		return "", fmt.Errorf("failed to encode intent: %w", err)
	}
	return out, nil
}

// DecodeLaunchIntent parses an intent column value. The empty string decodes
// to nil without error; anything else must be valid.
func DecodeLaunchIntent(raw string) (*LaunchIntent, error) {
	if raw == "" {
		return nil, nil
	}
	var intent LaunchIntent
	if err := intentJSON.UnmarshalFromString(raw, &intent); err != nil {
		return nil, fmt.Errorf("failed to decode intent %q: %w", raw, err)
	}
	return &intent, nil
}
