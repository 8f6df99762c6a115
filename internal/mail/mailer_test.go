package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/bizdata/internal/errors"
)

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := NewLogMailer(logger).Send(context.Background(), Message{To: "dev@example.com", Subject: "s", Body: "code 123456"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"to":"dev@example.com"`)
	assert.Contains(t, buf.String(), "code 123456")
}

func TestSMTPMailer_Send(t *testing.T) {
	var gotTo string
	var gotMsg []byte
	var gotConfig SMTPConfig

	mailer := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@bizdata.local"})
	mailer.now = func() time.Time { return time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC) }
	mailer.send = func(ctx context.Context, cfg SMTPConfig, to string, msg []byte) error {
		gotConfig, gotTo, gotMsg = cfg, to, msg
		return nil
	}

	err := mailer.Send(context.Background(), Message{To: "u@example.com", Subject: "Hello", Body: "body\r\n"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com", gotConfig.Host)
	assert.Equal(t, "u@example.com", gotTo)

	raw := string(gotMsg)
	headers, body, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	assert.Contains(t, headers, "From: no-reply@bizdata.local\r\n")
	assert.Contains(t, headers, "To: u@example.com\r\n")
	assert.Contains(t, headers, "Subject: Hello\r\n")
	assert.Contains(t, headers, "Date: Sun, 08 Feb 2026 10:00:00 +0000\r\n")
	assert.Contains(t, headers, "@smtp.example.com>")
	assert.Contains(t, headers, "Content-Type: text/plain; charset=UTF-8")
	assert.Equal(t, "body\r\n", body)
}

func TestSMTPMailer_RejectsHeaderInjection(t *testing.T) {
	mailer := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com"})
	mailer.send = func(ctx context.Context, cfg SMTPConfig, to string, msg []byte) error {
		t.Fatal("send must not be called")
		return nil
	}

	err := mailer.Send(context.Background(), Message{To: "a@example.com\r\nBcc: x@example.com", Subject: "s"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSMTPMailer_SendError(t *testing.T) {
	sendErr := errors.New("connection refused")
	mailer := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com"})
	mailer.send = func(ctx context.Context, cfg SMTPConfig, to string, msg []byte) error {
		return sendErr
	}

	err := mailer.Send(context.Background(), Message{To: "a@example.com", Subject: "s"})
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	assert.ErrorIs(t, err, sendErr)
}

func TestSendMail_DialFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sendMail(ctx, SMTPConfig{Host: "127.0.0.1", Port: 1}, "a@example.com", []byte("x"))
	assert.Error(t, err)
}
