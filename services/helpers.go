package services

import (
	"errors"

	"github.com/Dosada05/bracket-builder/repositories"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// handleRepositoryError - общий хелпер для ошибок репозитория
func handleRepositoryError(err error) error {
	if errors.Is(err, repositories.ErrEventNotFound) {
		return ErrEventNotFound
	}
	return err
}
