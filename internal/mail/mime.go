package mail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Message is an HTML email with one optional attachment.
type Message struct {
	From           string
	To             string
	Subject        string
	HTMLBody       string
	Attachment     []byte
	AttachmentName string
	AttachmentType string
}

// BuildMIME encodes msg as a multipart/mixed RFC 5322 message: the HTML
// body first, then the base64 attachment.
func BuildMIME(msg Message) ([]byte, error) {
	if strings.TrimSpace(msg.To) == "" {
		return nil, errors.New("mail: recipient is required")
	}
	if strings.ContainsAny(msg.To+msg.From+msg.Subject, "\r\n") {
		return nil, errors.New("mail: header values must not contain line breaks")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	var buf bytes.Buffer
	if msg.From != "" {
		fmt.Fprintf(&buf, "From: %s\r\n", msg.From)
	}
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	html, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {`text/html; charset="UTF-8"`},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64(html, []byte(msg.HTMLBody)); err != nil {
		return nil, err
	}

	if len(msg.Attachment) > 0 {
		contentType := msg.AttachmentType
		if contentType == "" {
			contentType = "application/pdf"
		}
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {mime.FormatMediaType(contentType, map[string]string{"name": msg.AttachmentName})},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": msg.AttachmentName})},
		})
		if err != nil {
			return nil, err
		}
		if err := writeBase64(part, msg.Attachment); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	buf.Write(body.Bytes())
	return buf.Bytes(), nil
}

// writeBase64 writes data base64-encoded in 76-column lines.
func writeBase64(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		if _, err := fmt.Fprintf(w, "%s\r\n", encoded[:76]); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err := fmt.Fprintf(w, "%s\r\n", encoded)
	return err
}
