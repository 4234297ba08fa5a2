package parser

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// S3Event is the object-creation notification envelope delivered to the
// events queue, one record per affected object.
type S3Event struct {
	Records []S3EventRecord `json:"Records"`
}

type S3EventRecord struct {
	S3 S3Entity `json:"s3"`
}

type S3Entity struct {
	Bucket S3Bucket `json:"bucket"`
	Object S3Object `json:"object"`
}

type S3Bucket struct {
	Name string `json:"name"`
}

type S3Object struct {
	Key string `json:"key"`
}

// DecodeEvent parses an S3 event notification body.
func DecodeEvent(body string) (*S3Event, error) {
	var event S3Event
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		return nil, fmt.Errorf("failed to decode s3 event: %w", err)
	}
	return &event, nil
}

// DecodeObjectKey reverses the URL encoding S3 applies to object keys in
// event notifications, including "+" for space.
func DecodeObjectKey(raw string) (string, error) {
	key, err := url.QueryUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode object key %q: %w", raw, err)
	}
	return key, nil
}
