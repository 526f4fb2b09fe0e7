package rest

import (
	"encoding/json"

	"github.com/bnema/selfcord/internal/domain"
	"github.com/tidwall/gjson"
)

// AssertArray fails unless body is a JSON array.
func AssertArray(body []byte, context string) ([]byte, error) {
	if gjson.ValidBytes(body) && gjson.ParseBytes(body).IsArray() {
		return body, nil
	}
	return nil, malformed(body, context)
}

// AssertNoError fails when the body carries an upstream code.
func AssertNoError(body []byte, context string) ([]byte, error) {
	code := gjson.GetBytes(body, "code")
	if truthy(code) {
		return nil, &domain.UpstreamError{
			Code:    code.Int(),
			Message: context + ": " + gjson.GetBytes(body, "message").String(),
		}
	}
	return body, nil
}

// AssertID fails unless the body carries a non-empty id.
func AssertID(body []byte, context string) ([]byte, error) {
	return AssertProperty(body, "id", context)
}

// AssertProperty fails unless property is present and non-empty.
func AssertProperty(body []byte, property, context string) ([]byte, error) {
	if gjson.ValidBytes(body) && truthy(gjson.GetBytes(body, property)) {
		return body, nil
	}
	return nil, malformed(body, context)
}

// Decode unmarshals an asserted body into T.
func Decode[T any](body []byte, context string) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return out, &domain.MalformedResponseError{Context: context + ": " + err.Error()}
	}
	return out, nil
}

func malformed(body []byte, context string) error {
	err := &domain.MalformedResponseError{Context: context}
	if gjson.ValidBytes(body) {
		err.Code = gjson.GetBytes(body, "code").Int()
		err.Message = gjson.GetBytes(body, "message").String()
	}
	return err
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return r.Exists()
	}
}
