package service

import (
	"context"

	"fred/internal/object"
	"fred/internal/state"
)

// VocabularyDrift lists the differences between the flags an object type
// declares and the states the database defines for it.
type VocabularyDrift struct {
	Type object.Type `json:"object_type"`
	// Missing flags are declared but absent from the database.
	Missing []string `json:"missing,omitempty"`
	// Undeclared states exist in the database only; they are ignored or
	// rejected at query time.
	Undeclared []string `json:"undeclared,omitempty"`
	// Misclassified flags differ in manipulation or visibility.
	Misclassified []string `json:"misclassified,omitempty"`
}

func (d VocabularyDrift) Empty() bool {
	return len(d.Missing) == 0 && len(d.Undeclared) == 0 && len(d.Misclassified) == 0
}

// CheckVocabularies compares every object type's vocabulary with the
// database and returns the types that drifted.
func (s *Service) CheckVocabularies(ctx context.Context) ([]VocabularyDrift, error) {
	var drifts []VocabularyDrift
	for _, typ := range object.Types {
		drift, err := s.checkVocabulary(ctx, typ)
		if err != nil {
			return nil, err
		}
		if drift.Empty() {
			continue
		}
		s.logger.WarnContext(ctx, "state vocabulary differs from database",
			"object_type", typ,
			"missing", drift.Missing,
			"undeclared", drift.Undeclared,
			"misclassified", drift.Misclassified,
		)
		drifts = append(drifts, drift)
	}
	return drifts, nil
}

func (s *Service) checkVocabulary(ctx context.Context, typ object.Type) (VocabularyDrift, error) {
	ctx, c := s.begin(ctx, "check_vocabulary", typ)

	drift := VocabularyDrift{Type: typ}
	err := func() error {
		vocabulary, ok := state.VocabularyOf(typ)
		if !ok {
			return errUnknownType(typ)
		}
		stored, err := s.store.StateDescriptors(ctx, typ)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(stored))
		for _, d := range stored {
			seen[d.Name] = true
			i, ok := vocabulary.IndexOf(d.Name)
			if !ok {
				drift.Undeclared = append(drift.Undeclared, d.Name)
				continue
			}
			if vocabulary.At(i) != d {
				drift.Misclassified = append(drift.Misclassified, d.Name)
			}
		}
		for _, name := range vocabulary.Names() {
			if !seen[name] {
				drift.Missing = append(drift.Missing, name)
			}
		}
		return nil
	}()
	return drift, c.end(err)
}
