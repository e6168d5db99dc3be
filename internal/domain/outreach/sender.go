package outreach

// SenderIdentity is one sending account of the configured pool. The pool is
// static configuration, read-only after startup.
type SenderIdentity struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GeneratedEmail is the personalized subject and plain-text body produced for
// one recipient. It lives only for the duration of a single outreach cycle.
type GeneratedEmail struct {
	Subject string
	Body    string
}
