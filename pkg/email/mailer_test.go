package email_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrtin42/dub/pkg/email"
)

func TestSendEmailParams_Validate(t *testing.T) {
	valid := email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Welcome",
		BodyHTML: "<p>Hi</p>",
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*email.SendEmailParams)
	}{
		{"missing recipient", func(p *email.SendEmailParams) { p.SendTo = "" }},
		{"invalid recipient", func(p *email.SendEmailParams) { p.SendTo = "not-an-email" }},
		{"missing subject", func(p *email.SendEmailParams) { p.Subject = "" }},
		{"missing body", func(p *email.SendEmailParams) { p.BodyHTML = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), email.ErrInvalidParams)
		})
	}
}

func TestNewPostmarkClient_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  email.Config
	}{
		{"missing server token", email.Config{PostmarkAccountToken: "a", SenderEmail: "s@e.com", SupportEmail: "h@e.com"}},
		{"missing account token", email.Config{PostmarkServerToken: "s", SenderEmail: "s@e.com", SupportEmail: "h@e.com"}},
		{"invalid sender", email.Config{PostmarkServerToken: "s", PostmarkAccountToken: "a", SenderEmail: "nope", SupportEmail: "h@e.com"}},
		{"invalid support", email.Config{PostmarkServerToken: "s", PostmarkAccountToken: "a", SenderEmail: "s@e.com", SupportEmail: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := email.NewPostmarkClient(tt.cfg)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
		})
	}
}

func TestDevSender(t *testing.T) {
	t.Run("single send writes files", func(t *testing.T) {
		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "user@example.com",
			Subject:  "Your plan was upgraded",
			BodyHTML: "<p>Welcome to pro</p>",
			Tag:      "upgrade",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var htmlFile string
		for _, e := range entries {
			if filepath.Ext(e.Name()) == ".html" {
				htmlFile = filepath.Join(dir, e.Name())
			}
		}
		require.NotEmpty(t, htmlFile)

		body, err := os.ReadFile(htmlFile)
		require.NoError(t, err)
		assert.Contains(t, string(body), "Welcome to pro")
	})

	t.Run("batch records all recipients", func(t *testing.T) {
		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendBatch(context.Background(), []string{"a@example.com", "b@example.com"}, email.SendEmailParams{
			Subject:  "Sorry to see you go",
			BodyHTML: "<p>Survey</p>",
			Tag:      "cancellation-survey",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)

		var metaFile string
		for _, e := range entries {
			if filepath.Ext(e.Name()) == ".json" {
				metaFile = filepath.Join(dir, e.Name())
			}
		}
		require.NotEmpty(t, metaFile)

		meta, err := os.ReadFile(metaFile)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(meta), "a@example.com") && strings.Contains(string(meta), "b@example.com"))
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		dir := t.TempDir()
		sender := email.NewDevSender(dir)
		require.NoError(t, sender.SendBatch(context.Background(), nil, email.SendEmailParams{}))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
