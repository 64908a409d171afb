package mail

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_OTP(t *testing.T) {
	t.Parallel()

	out, err := render(otpTemplate, templateData{AppName: "Shop", Code: "123456", Minutes: 10})
	require.NoError(t, err)
	assert.Contains(t, string(out), "123456")
	assert.Contains(t, string(out), "10 minutes")
}

func TestRender_ResetEscapesLink(t *testing.T) {
	t.Parallel()

	out, err := render(resetTemplate, templateData{AppName: "Shop", Link: `https://x.io/reset?token=a"b`, Minutes: 60})
	require.NoError(t, err)
	assert.NotContains(t, string(out), `a"b`)
	assert.Contains(t, string(out), "https://x.io/reset?token=")
}

func TestLogMailer_NeverLogsSecrets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := LogMailer{Logger: logging.NewWithWriter(&buf, "info")}

	require.NoError(t, m.SendOTP(context.Background(), "a@x.com", "654321", 10*time.Minute))
	require.NoError(t, m.SendPasswordReset(context.Background(), "a@x.com", "https://x.io/reset?token=secret", time.Hour))

	assert.Contains(t, buf.String(), "a@x.com")
	assert.NotContains(t, buf.String(), "654321")
	assert.NotContains(t, buf.String(), "token=secret")
}

func TestSMTPMailer_ContextCancelled(t *testing.T) {
	t.Parallel()

	m := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: 1, From: "no-reply@x.com", AppName: "Shop"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.SendOTP(ctx, "a@x.com", "123456", 10*time.Minute)
	assert.Error(t, err)
}
