package ledger

import (
	"errors"

	"github.com/Spok95/foodgram/internal/infra/db"
)

var (
	ErrEmptyIngredients    = errors.New("ledger: empty ingredients")
	ErrInvalidAmount       = errors.New("ledger: amount must be at least 1")
	ErrDuplicateIngredient = errors.New("ledger: duplicate ingredient")
	ErrUnknownIngredient   = errors.New("ledger: unknown ingredient")
	ErrRecipeNotFound      = errors.New("ledger: recipe not found")
)

// ValidationError — отказ, о котором сообщаем клиенту как есть (HTTP 400).
// Field — имя поля в ответе API, Err — одна из ErrXxx выше.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// Code — короткий код для метрик и логов.
func (e *ValidationError) Code() string {
	switch {
	case errors.Is(e.Err, ErrEmptyIngredients):
		return "empty_ingredients"
	case errors.Is(e.Err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(e.Err, ErrDuplicateIngredient):
		return "duplicate_ingredient"
	case errors.Is(e.Err, ErrUnknownIngredient):
		return "unknown_ingredient"
	default:
		return "invalid"
	}
}

func emptyIngredients() *ValidationError {
	return &ValidationError{Field: "ingredients", Message: "Необходимо указать ингредиенты", Err: ErrEmptyIngredients}
}

func invalidAmount() *ValidationError {
	return &ValidationError{Field: "amount", Message: "Количество ингредиента не может быть меньше 1", Err: ErrInvalidAmount}
}

func amountTooLarge() *ValidationError {
	return &ValidationError{Field: "amount", Message: "Количество ингредиента слишком большое", Err: ErrInvalidAmount}
}

func duplicateIngredient() *ValidationError {
	return &ValidationError{Field: "ingredients", Message: "Ингредиенты не должны повторяться", Err: ErrDuplicateIngredient}
}

func unknownIngredient() *ValidationError {
	return &ValidationError{Field: "ingredients", Message: "Ингредиент не найден", Err: ErrUnknownIngredient}
}

// fromStorage переводит нарушения ограничений БД (гонка двух записей, удалённый ингредиент)
// в ту же форму, что и обычная валидация. nil — если ошибка не про это.
func fromStorage(err error) *ValidationError {
	switch {
	case db.IsUniqueViolation(err, constraintUniqueIngredient):
		return duplicateIngredient()
	case db.IsForeignKeyViolation(err, ""):
		return unknownIngredient()
	case db.IsCheckViolation(err, ""):
		return invalidAmount()
	default:
		return nil
	}
}
