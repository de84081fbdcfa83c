package services

import (
	"errors"

	"github.com/Dosada05/bracket-builder/brackets"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrEventNotFound = errors.New("event not found")

	// Ошибки валидации
	ErrValidationFailed     = errors.New("validation failed")
	ErrInvalidSelection     = errors.New("category selection is incomplete")
	ErrEmptyCategory        = errors.New("no competitors registered in this category")
	ErrUnknownSeedingPolicy = brackets.ErrUnknownSeedingPolicy
	ErrUnsupportedFormat    = errors.New("unsupported export format")

	// Публикация
	ErrExportNotConfigured = errors.New("bracket publishing is not configured")
)
