// Package dialog holds yes/no prompts without blocking the caller. The
// adapter asks, keeps running its loop, and answers later; the answer runs
// the continuation registered with the question.
package dialog

import (
	"errors"
	"sync"
)

var ErrNoPrompt = errors.New("no prompt pending")

type Kind string

const (
	KindAbandon Kind = "abandon"
	KindNewGame Kind = "new_game"
	KindRematch Kind = "rematch"
	KindExit    Kind = "exit"
)

var questions = map[Kind]string{
	KindAbandon: "Vuoi abbandonare la partita?",
	KindNewGame: "Vuoi iniziare una nuova partita? Quella in corso sarà abbandonata.",
	KindRematch: "Vuoi giocare ancora?",
	KindExit:    "Vuoi uscire dal gioco?",
}

// Question is the spoken text for k.
func (k Kind) Question() string {
	if q, ok := questions[k]; ok {
		return q
	}
	return string(k) + "?"
}

type Prompt struct {
	Kind     Kind
	Question string
	then     func(yes bool)
}

// Queue holds prompts first in, first out. Only the oldest one is pending.
type Queue struct {
	mu      sync.Mutex
	prompts []Prompt
}

func NewQueue() *Queue {
	return &Queue{}
}

// Ask queues a prompt and returns immediately. A second prompt of the same
// kind while one is queued is dropped.
func (q *Queue) Ask(k Kind, then func(yes bool)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, p := range q.prompts {
		if p.Kind == k {
			return
		}
	}
	q.prompts = append(q.prompts, Prompt{Kind: k, Question: k.Question(), then: then})
}

func (q *Queue) Pending() (Prompt, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.prompts) == 0 {
		return Prompt{}, false
	}
	return q.prompts[0], true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.prompts)
}

// Answer resolves the pending prompt. The prompt leaves the queue before
// its continuation runs, so the continuation may Ask again.
func (q *Queue) Answer(yes bool) error {
	q.mu.Lock()
	if len(q.prompts) == 0 {
		q.mu.Unlock()
		return ErrNoPrompt
	}
	p := q.prompts[0]
	q.prompts = q.prompts[1:]
	q.mu.Unlock()

	if p.then != nil {
		p.then(yes)
	}
	return nil
}

// Dismiss answers no to every queued prompt.
func (q *Queue) Dismiss() {
	for q.Answer(false) == nil {
	}
}
