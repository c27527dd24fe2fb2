package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/disintegration/imaging"
	"google.golang.org/api/option"
)

// getGoogleClient initializes a Google Cloud Storage client.
// Prefers ADC (service account / GOOGLE_APPLICATION_CREDENTIALS); set
// GCS_CREDENTIALS_JSON to provide explicit JSON locally.
func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

func gcsBucket() (string, error) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		return "", errors.New("GCS_BUCKET is required")
	}
	return bucket, nil
}

// PublicObjectURL is the stable URL for an uploaded object.
func PublicObjectURL(bucket, objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectName)
}

func uploadBytes(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	bucket, err := gcsBucket()
	if err != nil {
		return "", err
	}
	client, err := getGoogleClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	wc := client.Bucket(bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicObjectURL(bucket, objectName), nil
}

// SaveImage decodes a base64 payload, uploads the original plus a 200px-wide
// JPEG thumbnail, and returns both stable URLs.
func SaveImage(ctx context.Context, objectName string, imageData string) (url string, thumbnailUrl string, err error) {
	decoded, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return "", "", errors.New("image payload is not valid base64")
	}

	url, err = uploadBytes(ctx, objectName, decoded, "image/jpeg")
	if err != nil {
		return "", "", err
	}

	img, err := imaging.Decode(bytes.NewReader(decoded))
	if err != nil {
		// Not decodable as an image: keep the original, skip the thumbnail.
		return url, "", nil
	}
	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		return url, "", nil
	}
	thumbnailUrl, err = uploadBytes(ctx, "thumbnails/"+objectName, buf.Bytes(), "image/jpeg")
	if err != nil {
		return url, "", nil
	}
	return url, thumbnailUrl, nil
}

// ObjectNameFromURL recovers the blob key from a public object URL. Returns
// "" when the URL does not point into the configured bucket.
func ObjectNameFromURL(url string) string {
	bucket, err := gcsBucket()
	if err != nil {
		return ""
	}
	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", bucket)
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

func DeleteObject(ctx context.Context, objectName string) error {
	bucket, err := gcsBucket()
	if err != nil {
		return err
	}
	client, err := getGoogleClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Bucket(bucket).Object(objectName).Delete(ctx)
}
