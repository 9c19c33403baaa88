package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (Используются для оборачивания ошибок, напр. из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (Для частых, статичных ошибок)
// =========================================================================

// --- Auth & User Status ---

// ErrEmailAlreadyExists - email уже используется.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrInvalidCredentials - неверный email или пароль.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInsufficientPermissions - используется, когда не-админ пытается выполнить админ-действие.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrCannotModifySelf - админ пытается удалить сам себя.
var ErrCannotModifySelf = New(
	CodeForbidden,
	"business_logic",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// --- Connections ---

// ErrConnectionNotFound - запрос на подключение не найден.
var ErrConnectionNotFound = New(
	CodeNotFound,
	"connection",
	"Connection request not found",
	http.StatusBadRequest, // 400 у accept-reconnect: id есть, но строка не резолвится
)

// ErrConnectionOwnership - запрос принадлежит другому бизнесу/таланту.
var ErrConnectionOwnership = New(
	CodeForbidden,
	"connection",
	"Connection request does not belong to this profile",
	http.StatusForbidden,
)

// ErrDuplicateConnection - уже есть активный запрос между этой парой.
var ErrDuplicateConnection = New(
	CodeAlreadyExists,
	"connection",
	"An active connection request already exists for this talent and business",
	http.StatusConflict,
)

// --- Snapshots & Portfolio ---

// ErrSnapshotNotFound - снапшот не резолвится (в т.ч. привязан к другому бизнесу).
var ErrSnapshotNotFound = New(
	CodeNotFound,
	"snapshot",
	"Portfolio snapshot not found",
	http.StatusNotFound,
)

// ErrProfileNotFound - профиль таланта/бизнеса не найден для пользователя.
var ErrProfileNotFound = New(
	CodeForbidden,
	"profile",
	"Profile not found for the authenticated user",
	http.StatusForbidden,
)
