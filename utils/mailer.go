package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/textproto"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var sesClient *ses.Client

func InitSES() {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("AWS config load failed: %v", err)
	}
	sesClient = ses.NewFromConfig(cfg)
}

// generic SES sender
func sendEmail(to string, subject string, body string) error {
	if sesClient == nil {
		return errors.New("SES client not initialized")
	}
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(os.Getenv("SES_EMAIL")),
	}

	_, err := sesClient.SendEmail(context.TODO(), input)
	if err != nil {
		log.Printf("SES send error: %v", err)
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}

func SendWelcomeEmail(to string, name string) error {
	subject := "Welcome to FitTrack!"
	body := fmt.Sprintf("Hi %s,\n\nWelcome to FitTrack! We're excited to have you on board to start your fitness journey.\n\nLog your meals and workouts to get started.\n\nBest,\nThe FitTrack Team", name)
	return sendEmail(to, subject, body)
}

func SendResetEmail(to string, token string) error {
	subject := "FitTrack Password Reset"
	body := fmt.Sprintf("Your password reset code is: %s\n\nUse this in the app to set a new password within 15 minutes.\n\nIf you did not request this, please ignore this email.", token)
	return sendEmail(to, subject, body)
}

func SendWeeklySummaryEmail(to string, name string, body string) error {
	subject := "Your FitTrack Weekly Summary"
	text := fmt.Sprintf("Hi %s,\n\n%s\n\nKeep it up,\nThe FitTrack Team", name, body)
	return sendEmail(to, subject, text)
}

// SendExportEmail attaches the CSV export, which needs a raw MIME
// message; plain SES SendEmail cannot carry attachments.
func SendExportEmail(to string, name string, csvData []byte) error {
	if sesClient == nil {
		return errors.New("SES client not initialized")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", os.Getenv("SES_EMAIL"))
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: Your FitTrack Data Export\r\n")
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	part, err := writer.CreatePart(textHeader)
	if err != nil {
		return err
	}
	fmt.Fprintf(part,
		"Hello %s,\n\nAs requested, we've attached a CSV file containing all of your logged meals and workouts from your FitTrack account.\n\nIf you did not request this data export, please disregard this email.\n\nThank you for using FitTrack!\n",
		name)

	attachHeader := textproto.MIMEHeader{}
	attachHeader.Set("Content-Type", "text/csv")
	attachHeader.Set("Content-Disposition", `attachment; filename="FitTrack_Export.csv"`)
	attachHeader.Set("Content-Transfer-Encoding", "base64")
	part, err = writer.CreatePart(attachHeader)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(csvData)
	if _, err := part.Write([]byte(encoded)); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	_, err = sesClient.SendRawEmail(context.TODO(), &ses.SendRawEmailInput{
		RawMessage: &types.RawMessage{Data: buf.Bytes()},
		Source:     aws.String(os.Getenv("SES_EMAIL")),
	})
	if err != nil {
		log.Printf("SES raw send error: %v", err)
		return fmt.Errorf("export email send failed: %v", err)
	}
	return nil
}
