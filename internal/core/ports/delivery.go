package ports

import (
	"context"
	"io"
)

// Message is a single outbound email.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
	// Category tags the message for transports that support it (Mailtrap).
	Category string
}

// Mailer delivers email through an external transport.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ImageUpload is a profile picture received from a multipart form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore persists profile pictures per account kind.
type ImageStore interface {
	// Save stores the upload and returns the generated file name.
	Save(ctx context.Context, kind string, img ImageUpload) (string, error)
	// Open returns the stored file. Missing files yield domain.ErrNotFound.
	Open(ctx context.Context, kind, name string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, kind, name string) error
}
