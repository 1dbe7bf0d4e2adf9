package clipboard

// PublishError means the clip was written but its token could not be put on
// the clipboard.
type PublishError struct {
	Token string
	Err   error
}

func (e *PublishError) Error() string {
	return "copying " + e.Token + " to clipboard: " + e.Err.Error()
}

func (e *PublishError) Unwrap() error { return e.Err }

// Publisher places sound tokens on the system clipboard.
type Publisher struct {
	write func(string) error
}

func NewPublisher() *Publisher {
	return &Publisher{write: Copy}
}

// NewPublisherFunc routes tokens through write instead of the clipboard.
func NewPublisherFunc(write func(string) error) *Publisher {
	return &Publisher{write: write}
}

func (p *Publisher) Publish(token string) error {
	if err := p.write(token); err != nil {
		return &PublishError{Token: token, Err: err}
	}
	return nil
}
