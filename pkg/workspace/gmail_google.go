package workspace

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"strings"

	"google.golang.org/api/gmail/v1"
)

const me = "me"

// ErrInvalidRecipient is returned by Send for a recipient that is not a
// single-line address list.
var ErrInvalidRecipient = errors.New("invalid recipient")

var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// GoogleGmail implements GmailAPI with the Gmail v1 API.
type GoogleGmail struct {
	svc *gmail.Service
}

func NewGoogleGmail(svc *gmail.Service) *GoogleGmail {
	return &GoogleGmail{svc: svc}
}

func (g *GoogleGmail) List(ctx context.Context, query string, max int) ([]Message, error) {
	call := g.svc.Users.Messages.List(me).MaxResults(int64(max)).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}
	res, err := call.Do()
	if err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(res.Messages))
	for _, ref := range res.Messages {
		m, err := g.svc.Users.Messages.Get(me, ref.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", ref.Id, err)
		}
		out = append(out, fromGmail(m))
	}
	return out, nil
}

func (g *GoogleGmail) Get(ctx context.Context, id string) (Message, error) {
	m, err := g.svc.Users.Messages.Get(me, id).Format("full").Context(ctx).Do()
	if err != nil {
		return Message{}, err
	}
	msg := fromGmail(m)
	msg.Body = plainBody(m.Payload)
	return msg, nil
}

func (g *GoogleGmail) UnreadCount(ctx context.Context) (int, error) {
	label, err := g.svc.Users.Labels.Get(me, "UNREAD").Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	return int(label.MessagesUnread), nil
}

func (g *GoogleGmail) Send(ctx context.Context, to, subject, body string) error {
	raw, err := rawMessage(to, subject, body)
	if err != nil {
		return err
	}
	_, err = g.svc.Users.Messages.Send(me, &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}).Context(ctx).Do()
	return err
}

// rawMessage renders a plain text RFC 5322 message. Line breaks in the
// subject are folded into spaces and non-ASCII text is Q-encoded.
func rawMessage(to, subject, body string) (string, error) {
	if strings.ContainsAny(to, "\r\n") {
		return "", fmt.Errorf("%w: line break in %q", ErrInvalidRecipient, to)
	}
	addrs, err := mail.ParseAddressList(to)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidRecipient, to, err)
	}
	rcpt := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a.Name == "" {
			rcpt = append(rcpt, a.Address)
			continue
		}
		rcpt = append(rcpt, a.String())
	}
	subject = mime.QEncoding.Encode("utf-8", headerBreaks.Replace(subject))

	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(rcpt, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(body)
	return b.String(), nil
}

func (g *GoogleGmail) Trash(ctx context.Context, id string) error {
	_, err := g.svc.Users.Messages.Trash(me, id).Context(ctx).Do()
	return err
}

func (g *GoogleGmail) Labels(ctx context.Context) ([]string, error) {
	res, err := g.svc.Users.Labels.List(me).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(res.Labels))
	for _, l := range res.Labels {
		names = append(names, l.Name)
	}
	return names, nil
}

func fromGmail(m *gmail.Message) Message {
	msg := Message{ID: m.Id}
	if m.Payload == nil {
		return msg
	}
	for _, h := range m.Payload.Headers {
		switch h.Name {
		case "From":
			msg.From = h.Value
		case "Subject":
			msg.Subject = h.Value
		case "Date":
			msg.Date = h.Value
		}
	}
	return msg
}

// plainBody returns the first text/plain body of the payload tree.
func plainBody(p *gmail.MessagePart) string {
	if p == nil {
		return ""
	}
	if p.Body != nil && p.Body.Data != "" && (len(p.Parts) == 0 || strings.HasPrefix(p.MimeType, "text/plain")) {
		if b, err := base64.URLEncoding.DecodeString(p.Body.Data); err == nil {
			return string(b)
		}
		if b, err := base64.RawURLEncoding.DecodeString(p.Body.Data); err == nil {
			return string(b)
		}
	}
	for _, part := range p.Parts {
		if part.MimeType == "text/plain" || len(part.Parts) > 0 {
			if body := plainBody(part); body != "" {
				return body
			}
		}
	}
	return ""
}
