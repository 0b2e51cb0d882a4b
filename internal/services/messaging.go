package services

import (
	"context"

	"github.com/atelier-labs/atelier/internal/domain"
)

// Messaging is the facade over message threads.
//
// Threads follow the same idempotent-create contract as connections: one
// thread per participant pair, whichever side started it. A thread's
// LastMessageID and UpdatedAt always reflect the most recently appended
// message; the append and the pointer update are one critical section.
type Messaging struct {
	*core
}

// GetOrCreateThread returns the unique 2-participant thread between a and b,
// creating it if none exists. Self-threads are rejected.
func (s *Messaging) GetOrCreateThread(ctx context.Context, a, b string) (domain.MessageThread, error) {
	var thread domain.MessageThread
	if err := ctx.Err(); err != nil {
		return thread, err
	}
	if a == b {
		return thread, domain.NewValidationError(domain.ErrCodeSelfThread, "participants", "cannot open a thread from user %q to themselves", a)
	}

	var err error
	s.repo.Update(func() {
		if _, ok := s.repo.Users.Get(a); !ok {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "participants", "no such user %q", a)
			return
		}
		if _, ok := s.repo.Users.Get(b); !ok {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "participants", "no such user %q", b)
			return
		}
		if existing, ok := s.idx.ThreadForPair(a, b); ok {
			thread = existing
			return
		}
		thread = s.repo.Threads.Insert(domain.MessageThread{
			ParticipantIDs: []string{a, b},
		})
		s.log.Debug().Str("threadId", thread.ID).Msg("thread created")
	})
	if err != nil {
		return domain.MessageThread{}, err
	}
	return thread, nil
}

// SendMessage appends a message to the thread and updates the thread's
// lastMessage pointer atomically. Returns false if the thread does not
// exist; a validation error if the sender is not a participant.
func (s *Messaging) SendMessage(ctx context.Context, threadID, senderID, body string) (domain.Message, bool, error) {
	var msg domain.Message
	if err := ctx.Err(); err != nil {
		return msg, false, err
	}
	if body == "" {
		return msg, false, domain.NewValidationError(domain.ErrCodeMissingField, "body", "required")
	}

	var ok bool
	var err error
	s.repo.Update(func() {
		thread, found := s.repo.Threads.Get(threadID)
		if !found {
			return
		}
		ok = true
		participant := false
		for _, p := range thread.ParticipantIDs {
			if p == senderID {
				participant = true
				break
			}
		}
		if !participant {
			err = domain.NewValidationError(domain.ErrCodeNotParticipant, "senderId", "user %q is not in thread %q", senderID, threadID)
			return
		}
		msg = s.repo.Messages.Insert(domain.Message{
			ThreadID: threadID,
			SenderID: senderID,
			Body:     body,
		})
		s.repo.Threads.Mutate(threadID, func(t *domain.MessageThread) {
			t.LastMessageID = msg.ID
		})
	})
	if !ok {
		return domain.Message{}, false, nil
	}
	if err != nil {
		return domain.Message{}, true, err
	}
	return msg, true, nil
}

// Messages returns the thread's messages ascending by CreatedAt, ties broken
// by insertion order.
func (s *Messaging) Messages(ctx context.Context, threadID string) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var msgs []domain.Message
	s.repo.View(func() {
		msgs = s.idx.MessagesOf(threadID)
	})
	return msgs, nil
}

// GetThread returns the thread with the given id.
func (s *Messaging) GetThread(ctx context.Context, id string) (domain.MessageThread, bool, error) {
	var thread domain.MessageThread
	var ok bool
	if err := ctx.Err(); err != nil {
		return thread, false, err
	}
	s.repo.View(func() {
		thread, ok = s.repo.Threads.Get(id)
	})
	return thread, ok, nil
}

// ThreadsForUser returns every thread the user participates in.
func (s *Messaging) ThreadsForUser(ctx context.Context, userID string) ([]domain.MessageThread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var threads []domain.MessageThread
	s.repo.View(func() {
		threads = s.idx.ThreadsOf(userID)
	})
	return threads, nil
}
