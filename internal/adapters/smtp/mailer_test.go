package smtp

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

func testEmail() domain.Email {
	return domain.Email{
		From:     "reflections@example.com",
		To:       "reader@example.com",
		Subject:  "Daily Stoic Reflection: Clarity and Sound Judgment",
		HTMLBody: "<html><body><p>Hello</p></body></html>",
		TextBody: "Hello",
	}
}

// messageBoundary extracts the MIME boundary from the message headers.
func messageBoundary(t *testing.T, msg string) string {
	t.Helper()

	m := regexp.MustCompile(`boundary="([^"]+)"`).FindStringSubmatch(msg)
	require.NotNil(t, m, "message has no boundary parameter")

	return m[1]
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage(testEmail()))

	assert.Contains(t, msg, "From: reflections@example.com\r\n")
	assert.Contains(t, msg, "To: reader@example.com\r\n")
	assert.Contains(t, msg, "Subject: Daily Stoic Reflection: Clarity and Sound Judgment\r\n")
	assert.Contains(t, msg, "Content-Type: multipart/alternative")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=\"utf-8\"")
	assert.Contains(t, msg, "Content-Type: text/html; charset=\"utf-8\"")

	boundary := messageBoundary(t, msg)
	assert.Equal(t, 2, strings.Count(msg, "--"+boundary+"\r\n"))
	assert.Contains(t, msg, "--"+boundary+"--\r\n")

	// Text part precedes HTML so capable clients prefer HTML.
	assert.Less(t, strings.Index(msg, "text/plain"), strings.Index(msg, "text/html"))
}

func TestBuildMessage_BoundaryIsUniquePerMessage(t *testing.T) {
	email := testEmail()

	first := messageBoundary(t, string(buildMessage(email)))
	second := messageBoundary(t, string(buildMessage(email)))

	assert.NotEqual(t, first, second)
	assert.NotContains(t, email.TextBody, first)
}

func TestSend_CanceledContext(t *testing.T) {
	mailer := NewMailer(Config{Host: "localhost", Port: 2525})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mailer.Send(ctx, testEmail())

	require.Error(t, err)
	assert.True(t, domain.IsDelivery(err))
}
