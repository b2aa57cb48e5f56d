package utils

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

var rekClient *rekognition.Client

// must be called once at startup (e.g. in main.go)
func InitRekognition() {
	awsRegion := os.Getenv("AWS_REGION")
	if awsRegion == "" {
		log.Fatal("AWS_REGION not set")
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		log.Fatalf("unable to load AWS config: %v", err)
	}
	rekClient = rekognition.NewFromConfig(cfg)
}

// ModerateAvatarImage runs the uploaded avatar through Rekognition
// moderation and returns the labels it objects to, empty when clean.
func ModerateAvatarImage(imageData []byte) ([]string, error) {
	if rekClient == nil {
		return nil, errors.New("Rekognition client not initialized")
	}

	out, err := rekClient.DetectModerationLabels(context.TODO(), &rekognition.DetectModerationLabelsInput{
		Image:         &types.Image{Bytes: imageData},
		MinConfidence: floatPtr(75),
	})
	if err != nil {
		return nil, err
	}

	var labels []string
	for _, l := range out.ModerationLabels {
		if l.Name != nil {
			labels = append(labels, *l.Name)
		}
	}
	return labels, nil
}

func floatPtr(f float32) *float32 { return &f }
