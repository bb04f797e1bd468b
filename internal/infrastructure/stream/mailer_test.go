package stream

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmail(t *testing.T) {
	var buf bytes.Buffer
	m := NewMailer("test@example.com", &buf)

	require.NoError(t, m.SendEmail(context.Background(), "recipient@example.com", "Test Subject", "Test Text"))

	out := buf.String()
	assert.Contains(t, out, "##### BEGIN EMAIL #####")
	assert.Contains(t, out, "From: test@example.com\n")
	assert.Contains(t, out, "To: recipient@example.com\n")
	assert.Contains(t, out, "Subject: Test Subject\n")
	assert.Contains(t, out, "\nTest Text\n")
	assert.Contains(t, out, "###### END EMAIL ######")
}
