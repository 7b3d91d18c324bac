package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

type postmarkClient struct {
	client *postmark.Client
	config Config
}

// NewPostmarkClient creates a Postmark-backed email sender. All tokens and
// addresses are validated up front so a misconfigured service fails at
// startup instead of silently dropping mail.
func NewPostmarkClient(cfg Config) (EmailSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" || !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if cfg.SupportEmail == "" || !emailRegex.MatchString(cfg.SupportEmail) {
		return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidConfig)
	}

	return &postmarkClient{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

// MustNewPostmarkClient creates a Postmark client that panics on invalid config.
func MustNewPostmarkClient(cfg Config) EmailSender {
	client, err := NewPostmarkClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// SendEmail implements EmailSender using Postmark's transactional API.
// Reply-To points at the support address so customer responses reach a human.
func (c *postmarkClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := c.client.SendEmail(ctx, c.buildEmail(params.SendTo, params))
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}

// SendBatch delivers the message to all recipients through Postmark's batch
// endpoint. Per-recipient errors are collected and returned joined; a partial
// failure does not abort the remaining deliveries.
func (c *postmarkClient) SendBatch(ctx context.Context, recipients []string, params SendEmailParams) error {
	if len(recipients) == 0 {
		return nil
	}
	if params.Subject == "" || params.BodyHTML == "" {
		return fmt.Errorf("%w: subject and body are required", ErrInvalidParams)
	}

	batch := make([]postmark.Email, 0, len(recipients))
	for _, to := range recipients {
		batch = append(batch, c.buildEmail(to, params))
	}

	responses, err := c.client.SendEmailBatch(ctx, batch)
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	var errs []error
	for i, resp := range responses {
		if resp.ErrorCode > 0 {
			errs = append(errs, fmt.Errorf("postmark error for %s: %d - %s", recipients[i], resp.ErrorCode, resp.Message))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrFailedToSendEmail}, errs...)...)
	}
	return nil
}

func (c *postmarkClient) buildEmail(to string, params SendEmailParams) postmark.Email {
	return postmark.Email{
		From:       c.config.SenderEmail,
		ReplyTo:    c.config.SupportEmail,
		To:         to,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	}
}
