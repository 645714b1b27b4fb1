package services

import "log"

// MailSender delivers one email synchronously.
type MailSender interface {
	Send(to, subject, html string) error
}

// MailQueue hands an email to a broker for background delivery.
type MailQueue interface {
	Enqueue(to, subject, html string) error
}

// Notifier routes fire-and-forget notification mail. With a queue configured
// the message is enqueued and delivered by the queue consumer; without one it
// falls back to a best-effort send on a separate goroutine. Either way the
// calling request never waits on, or fails because of, the mail relay.
type Notifier struct {
	queue  MailQueue
	sender MailSender
}

// NewNotifier creates a Notifier. Both arguments may be nil; a Notifier with
// neither a queue nor a sender silently drops notifications.
func NewNotifier(queue MailQueue, sender MailSender) *Notifier {
	return &Notifier{
		queue:  queue,
		sender: sender,
	}
}

// Fire dispatches a notification email without blocking the caller on
// delivery. Failures are logged, never returned.
func (n *Notifier) Fire(to, subject, html string) {
	if to == "" {
		return
	}
	if n.queue != nil {
		if err := n.queue.Enqueue(to, subject, html); err != nil {
			log.Printf("Warning: failed to enqueue notification for %s: %v", to, err)
		}
		return
	}
	if n.sender == nil {
		return
	}
	go func() {
		if err := n.sender.Send(to, subject, html); err != nil {
			log.Printf("Warning: failed to send notification to %s: %v", to, err)
		}
	}()
}
