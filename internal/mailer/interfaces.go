package mailer

// Service delivers a single rendered email. Implementations are
// fire-and-forget from the caller's point of view: a send failure is
// reported, but callers outside the reset flow swallow it.
type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
}
