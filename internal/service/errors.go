package service

import "errors"

// Ошибки сервисного слоя.
var (
	// ErrNotFound — запрошенный ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — некорректные входные данные.
	ErrValidation = errors.New("ошибка валидации")
	// ErrAccessDenied — родителю не предоставлен доступ к данным ученика.
	ErrAccessDenied = errors.New("доступ к данным ученика не предоставлен")
)
