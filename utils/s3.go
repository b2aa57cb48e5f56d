package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"mime"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var s3Client *s3.Client

func InitS3() {
	s3Region := os.Getenv("S3_REGION")
	if s3Region == "" {
		s3Region = os.Getenv("AWS_REGION") // fallback
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(s3Region))
	if err != nil {
		log.Fatalf("Unable to load AWS config for S3: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
}

// DecodeBase64Image splits a "data:<mime>;base64,<data>" payload into
// raw bytes and a content type.
func DecodeBase64Image(base64Data string) ([]byte, string, error) {
	parts := strings.Split(base64Data, ",")
	if len(parts) != 2 {
		return nil, "", errors.New("invalid base64 image")
	}
	meta := parts[0]
	data := parts[1]

	mediaType := strings.SplitN(meta, ":", 2)
	if len(mediaType) != 2 {
		return nil, "", errors.New("invalid base64 image header")
	}
	contentType := strings.SplitN(mediaType[1], ";", 2)[0]

	imageData, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %v", err)
	}
	return imageData, contentType, nil
}

// UploadAvatarToS3 stores decoded avatar bytes and returns the public
// CloudFront URL.
func UploadAvatarToS3(imageData []byte, contentType, filenamePrefix string) (string, error) {
	if s3Client == nil {
		return "", errors.New("S3 client not initialized")
	}

	exts, _ := mime.ExtensionsByType(contentType)
	var ext string
	switch contentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	default:
		if len(exts) > 0 {
			ext = exts[0]
		} else {
			parts := strings.SplitN(contentType, "/", 2)
			if len(parts) == 2 {
				ext = "." + parts[1]
			}
		}
	}

	key := fmt.Sprintf("avatars/%s-%d%s", filenamePrefix, time.Now().UnixNano(), ext)

	_, err := s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("S3_BUCKET")),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	cfURL := os.Getenv("CLOUDFRONT_URL")
	return fmt.Sprintf("%s/%s", cfURL, key), nil
}
