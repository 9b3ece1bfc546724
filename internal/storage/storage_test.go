package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"musclemap/prescription-engine/internal/config"
)

func TestVideoObjectKey(t *testing.T) {
	key, err := VideoObjectKey("goblet-squat", "video/MP4")
	if err != nil {
		t.Fatalf("VideoObjectKey: %v", err)
	}
	if !strings.HasPrefix(key, "exercises/goblet-squat/") || !strings.HasSuffix(key, ".mp4") {
		t.Fatalf("key: got %q", key)
	}
	other, _ := VideoObjectKey("goblet-squat", "video/mp4")
	if other == key {
		t.Fatalf("keys should be unique per upload")
	}
	if _, err := VideoObjectKey("goblet-squat", "image/png"); !errors.Is(err, ErrUnsupportedContentType) {
		t.Fatalf("image upload: want ErrUnsupportedContentType got %v", err)
	}
}

func TestEndpointURL(t *testing.T) {
	cases := []struct {
		in     string
		ssl    bool
		expect string
	}{
		{"", true, ""},
		{"minio:9000", false, "http://minio:9000"},
		{"nyc3.digitaloceanspaces.com/", true, "https://nyc3.digitaloceanspaces.com"},
		{"http://localhost:9000", true, "http://localhost:9000"},
	}
	for _, c := range cases {
		if got := endpointURL(c.in, c.ssl); got != c.expect {
			t.Fatalf("endpointURL(%q,%v): want=%q got=%q", c.in, c.ssl, c.expect, got)
		}
	}
}

func TestPresignDownloadUsesPathStyle(t *testing.T) {
	ms, err := NewS3Storage(context.Background(), nil, config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
		BucketName:      "media",
	})
	if err != nil {
		t.Fatalf("NewS3Storage: %v", err)
	}
	url, err := ms.PresignDownload(context.Background(), "exercises/row/clip.mp4")
	if err != nil {
		t.Fatalf("PresignDownload: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:9000/media/exercises/row/clip.mp4?") {
		t.Fatalf("url: got %q", url)
	}
	if !strings.Contains(url, "X-Amz-Signature=") {
		t.Fatalf("url is not signed: %q", url)
	}
}
