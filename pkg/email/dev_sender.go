package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DevSender implements EmailSender for local development. It saves emails as
// HTML and JSON files to a directory instead of sending them through an email
// service.
type DevSender struct {
	dir string
}

// NewDevSender creates a development email sender that saves emails to disk.
// The directory is created on first send if it does not exist.
func NewDevSender(dir string) EmailSender {
	return &DevSender{dir: dir}
}

type devEmailMetadata struct {
	Timestamp string   `json:"timestamp"`
	SendTo    []string `json:"send_to"`
	Subject   string   `json:"subject"`
	Tag       string   `json:"tag,omitempty"`
}

// SendEmail saves the email as HTML and metadata as JSON to the configured directory.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return d.write([]string{params.SendTo}, params)
}

// SendBatch writes a single file pair covering all recipients.
func (d *DevSender) SendBatch(ctx context.Context, recipients []string, params SendEmailParams) error {
	if len(recipients) == 0 {
		return nil
	}
	return d.write(recipients, params)
}

func (d *DevSender) write(recipients []string, params SendEmailParams) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	now := time.Now()
	base := now.Format("2006_01_02_150405")
	if params.Tag != "" {
		base += "_" + sanitizeFilename(params.Tag)
	}

	meta := devEmailMetadata{
		Timestamp: now.Format(time.RFC3339),
		SendTo:    recipients,
		Subject:   params.Subject,
		Tag:       params.Tag,
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSendEmail, err)
	}

	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), metaJSON, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write metadata: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".html"), []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write body: %v", ErrFailedToSendEmail, err)
	}
	return nil
}

func sanitizeFilename(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
