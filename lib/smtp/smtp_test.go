package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSmtp(t *testing.T) {
	t.Run("not configured is a no-op", func(t *testing.T) {
		require.NoError(t, Connect("", "", "", "", true))
		require.False(t, Instance.IsConfigured())
		require.NoError(t, Instance.SendEMail("jane@hrms.com", "subject", "body"))
	})
	t.Run("message headers", func(t *testing.T) {
		msg := buildMessage("hr@hrms.com", "jane@hrms.com", "Leave approved", "Enjoy")
		require.True(t, strings.HasPrefix(msg, "From: hr@hrms.com\r\nTo: jane@hrms.com\r\nSubject: HRMS Pro - Leave approved\r\n"))
		require.True(t, strings.HasSuffix(msg, "\r\n\r\nEnjoy\r\n"))
	})
}
