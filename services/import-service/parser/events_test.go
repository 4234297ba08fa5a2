package parser

import "testing"

func TestDecodeObjectKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"uploaded/products.csv", "uploaded/products.csv"},
		{"uploaded/spring+catalog.csv", "uploaded/spring catalog.csv"},
		{"uploaded/caf%C3%A9.csv", "uploaded/café.csv"},
	}

	for _, tt := range tests {
		got, err := DecodeObjectKey(tt.raw)
		if err != nil {
			t.Fatalf("DecodeObjectKey(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("DecodeObjectKey(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDecodeObjectKeyInvalidEscape(t *testing.T) {
	if _, err := DecodeObjectKey("uploaded/bad%zz.csv"); err == nil {
		t.Fatal("expected error for invalid escape sequence")
	}
}

func TestDecodeEvent(t *testing.T) {
	body := `{"Records":[{"s3":{"bucket":{"name":"shop-uploads"},"object":{"key":"uploaded/a.csv"}}}]}`
	event, err := DecodeEvent(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(event.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(event.Records))
	}
	if event.Records[0].S3.Bucket.Name != "shop-uploads" {
		t.Fatalf("unexpected bucket %q", event.Records[0].S3.Bucket.Name)
	}
	if event.Records[0].S3.Object.Key != "uploaded/a.csv" {
		t.Fatalf("unexpected key %q", event.Records[0].S3.Object.Key)
	}
}

func TestDecodeEventInvalidJSON(t *testing.T) {
	if _, err := DecodeEvent("not-json"); err == nil {
		t.Fatal("expected error for invalid event body")
	}
}
