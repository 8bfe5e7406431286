package mailer

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/asset-tracker/internal/config"
)

func TestPasswordResetRendersBothParts(t *testing.T) {
	msg, err := PasswordReset("ana@example.com", PasswordResetData{
		Username: "ana",
		ResetURL: "http://localhost:5000/reset-password?uid=1&token=abc",
		ValidFor: "72h0m0s",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", msg.To)
	assert.Contains(t, msg.Text, "uid=1&token=abc")
	assert.Contains(t, msg.HTML, `href="http://localhost:5000/reset-password?uid=1&amp;token=abc"`)
	assert.Contains(t, msg.HTML, "Hello ana")
}

func TestNewWithoutHostLogs(t *testing.T) {
	buf := &bytes.Buffer{}
	m, err := New(config.MailConfig{}, zerolog.New(buf))
	require.NoError(t, err)

	require.NoError(t, m.Send(context.Background(), Message{To: "a@b.c", Subject: "hi", Text: "body"}))
	assert.Contains(t, buf.String(), `"to":"a@b.c"`)
}
