package mailer

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
	"strings"
	"time"
)

// buildMessage renders e as a MIME message. When both bodies are present the
// result is multipart/alternative with the HTML part last, so capable clients
// prefer it.
func buildMessage(e Email, messageIDDomain string) (string, error) {
	switch {
	case len(e.To) == 0:
		return "", fmt.Errorf("mailer: at least one recipient required")
	case e.From == "":
		return "", fmt.Errorf("mailer: from address required")
	case e.Subject == "":
		return "", fmt.Errorf("mailer: subject required")
	case e.TextBody == "" && e.HTMLBody == "":
		return "", fmt.Errorf("mailer: empty body")
	}

	var b strings.Builder
	header := func(k, v string) { b.WriteString(k + ": " + v + "\r\n") }

	header("Date", time.Now().Format(time.RFC1123Z))
	header("Message-ID", newMessageID(messageIDDomain))
	header("From", formatAddress(e.FromName, e.From))
	header("To", strings.Join(e.To, ", "))
	header("Subject", mime.QEncoding.Encode("utf-8", e.Subject))
	header("MIME-Version", "1.0")

	if e.TextBody != "" && e.HTMLBody != "" {
		boundary := "alt-" + randomToken()
		header("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", boundary))
		b.WriteString("\r\n")
		b.WriteString("--" + boundary + "\r\n")
		writePart(&b, "text/plain", e.TextBody)
		b.WriteString("--" + boundary + "\r\n")
		writePart(&b, "text/html", e.HTMLBody)
		b.WriteString("--" + boundary + "--\r\n")
		return b.String(), nil
	}

	if e.HTMLBody != "" {
		writePart(&b, "text/html", e.HTMLBody)
	} else {
		writePart(&b, "text/plain", e.TextBody)
	}
	return b.String(), nil
}

func writePart(b *strings.Builder, contentType, body string) {
	b.WriteString("Content-Type: " + contentType + "; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 7bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\r\n")
	}
}

// formatAddress applies RFC 2047 encoding for non-ascii display names.
func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), addr)
}

func newMessageID(domain string) string {
	return fmt.Sprintf("<%s@%s>", randomToken(), domain)
}

func randomToken() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
