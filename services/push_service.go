package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"fittrack/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PushService delivers workout reminders through SNS platform
// endpoints. One endpoint per registered device token.
type PushService struct {
	db             *gorm.DB
	sns            *awssns.Client
	log            *zap.Logger
	fcmPlatformArn string
}

func NewPushService(db *gorm.DB, log *zap.Logger) (*PushService, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &PushService{
		db:             db,
		sns:            awssns.NewFromConfig(cfg),
		log:            log,
		fcmPlatformArn: os.Getenv("SNS_FCM_ARN"),
	}, nil
}

func tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func (p *PushService) RegisterDevice(ctx context.Context, userID uint, platform, token string) (*models.UserDevice, error) {
	platform = strings.ToLower(platform)
	if platform != "android" && platform != "ios" {
		return nil, errors.New("unknown platform")
	}
	if p.fcmPlatformArn == "" {
		return nil, errors.New("SNS_FCM_ARN not set")
	}

	out, err := p.sns.CreatePlatformEndpoint(ctx, &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(p.fcmPlatformArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, err
	}

	dev := &models.UserDevice{
		UserID:      userID,
		Platform:    platform,
		TokenHash:   tokenHash(token),
		EndpointARN: aws.ToString(out.EndpointArn),
		Enabled:     true,
		UpdatedAt:   time.Now(),
	}
	var existing models.UserDevice
	if err := p.db.WithContext(ctx).
		Where("user_id = ? AND token_hash = ?", userID, dev.TokenHash).
		First(&existing).Error; err == nil {
		existing.EndpointARN = dev.EndpointARN
		existing.Platform = dev.Platform
		existing.Enabled = true
		existing.UpdatedAt = time.Now()
		if err := p.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if err := p.db.WithContext(ctx).Create(dev).Error; err != nil {
		return nil, err
	}
	return dev, nil
}

// PushToUser is fire-and-forget: a dead endpoint must not block the
// caller, failures are only logged.
func (p *PushService) PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string) {
	var endpoints []models.UserDevice
	if err := p.db.WithContext(ctx).
		Where("user_id = ? AND enabled = ?", userID, true).
		Find(&endpoints).Error; err != nil {
		p.log.Warn("loading push endpoints failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	if len(endpoints) == 0 {
		return
	}

	msg := map[string]any{
		"default": body,
		"GCM": map[string]any{
			"notification": map[string]string{
				"title": title,
				"body":  body,
			},
			"data": data,
		},
	}
	raw, _ := json.Marshal(msg)

	for _, d := range endpoints {
		_, err := p.sns.Publish(ctx, &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(string(raw)),
			TargetArn:        aws.String(d.EndpointARN),
		})
		if err != nil {
			p.log.Warn("push publish failed",
				zap.Uint("user_id", userID),
				zap.String("endpoint", d.EndpointARN),
				zap.Error(err))
		}
	}
}
