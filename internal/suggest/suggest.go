// Package suggest fetches meal, menu and shopping-list suggestions
// from the collaborator. Rendering the suggestion text is the text
// formatter collaborator's job.
package suggest

import (
	"context"
	"fmt"

	"pantry/internal/api"
	"pantry/internal/log"
)

type Service struct {
	backend api.Suggester
	logger  *log.Logger
}

func New(backend api.Suggester, logger *log.Logger) *Service {
	return &Service{
		backend: backend,
		logger:  logger.WithComponent(log.ComponentSuggest),
	}
}

// Suggest asks the collaborator for a suggestion of the given kind.
// A failure here is secondary-view territory: the caller renders it
// inline instead of failing the view.
func (s *Service) Suggest(ctx context.Context, kind api.SuggestionKind) (api.Suggestion, error) {
	if !kind.IsValid() {
		return api.Suggestion{}, fmt.Errorf("unknown suggestion kind %q", kind)
	}
	suggestion, err := s.backend.Suggest(ctx, kind)
	if err != nil {
		s.logger.WarnContext(ctx, "Suggestion fetch failed",
			"kind", string(kind), log.FieldError, err)
		return api.Suggestion{}, err
	}
	return suggestion, nil
}
