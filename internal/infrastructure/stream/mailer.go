// Package stream provides a development mailer that writes emails to a
// stream such as stdout instead of delivering them.
package stream

import (
	"context"
	"fmt"
	"io"
	"sync"
)

type Mailer struct {
	from string
	mu   sync.Mutex // keeps concurrent emails from interleaving
	w    io.Writer
}

func NewMailer(from string, w io.Writer) *Mailer {
	return &Mailer{from: from, w: w}
}

func (m *Mailer) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := fmt.Fprintf(m.w,
		"\n##### BEGIN EMAIL #####\n\nFrom: %s\nTo: %s\nSubject: %s\n\n%s\n\n###### END EMAIL ######\n\n",
		m.from, to, subject, body)
	return err
}
