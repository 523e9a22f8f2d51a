package prompt

import (
	"context"
	"fmt"
	"sync"

	"moviefmt/internal/identification/tmdb"
	"moviefmt/internal/parser"
	"moviefmt/internal/services"
)

// Decline answers every question with "none". Ambiguous folders end up
// renamed from their own name.
type Decline struct{}

func (Decline) ChooseCandidate(_ context.Context, _ *parser.Folder, candidates []tmdb.Record) (int, error) {
	return len(candidates), nil
}

func (Decline) PromptID(context.Context, *parser.Folder) (int64, bool, error) {
	return 0, false, nil
}

// Scripted replays fixed answers in order. Running out of answers is an error.
type Scripted struct {
	mu      sync.Mutex
	choices []int
	ids     []int64
}

// NewScripted returns a prompt that answers candidate questions from choices
// and id questions from ids. An id of 0 declines.
func NewScripted(choices []int, ids []int64) *Scripted {
	return &Scripted{
		choices: append([]int(nil), choices...),
		ids:     append([]int64(nil), ids...),
	}
}

func (s *Scripted) ChooseCandidate(_ context.Context, folder *parser.Folder, _ []tmdb.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.choices) == 0 {
		return 0, services.Wrap(services.ErrValidation, "prompt", "choose candidate", fmt.Sprintf("no scripted choice left for %s", folder.Name()), nil)
	}
	choice := s.choices[0]
	s.choices = s.choices[1:]
	return choice, nil
}

func (s *Scripted) PromptID(_ context.Context, folder *parser.Folder) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) == 0 {
		return 0, false, services.Wrap(services.ErrValidation, "prompt", "prompt id", fmt.Sprintf("no scripted id left for %s", folder.Name()), nil)
	}
	id := s.ids[0]
	s.ids = s.ids[1:]
	return id, id > 0, nil
}
