package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"taskManager/internal/models/task"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return task.Status(fl.Field().String()).Valid()
	})

	return v
}

func statusList() string {
	names := make([]string, len(task.Statuses))
	for i, s := range task.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "taskstatus":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), statusList())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// checkStruct возвращает BusinessError со всеми нарушениями сразу
func checkStruct(v *validator.Validate, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewInternal(fmt.Errorf("валидация: %w", err))
	}

	violations := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, violationMessage(fe))
	}
	return NewValidationError(violations...)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (s *TaskService) validateCreate(input CreateTaskInput) (task.Draft, error) {
	input.Title = trimmed(input.Title)
	// пустой после обрезки заголовок считается отсутствующим
	if input.Title != nil && *input.Title == "" {
		input.Title = nil
	}
	if err := checkStruct(s.validate, input); err != nil {
		return task.Draft{}, err
	}

	draft := task.Draft{
		Title:  *input.Title,
		Status: task.StatusToDo,
	}
	if input.Description != nil {
		draft.Description = *input.Description
	}
	if input.Status != nil {
		draft.Status = task.Status(*input.Status)
	}
	return draft, nil
}

func (s *TaskService) validateUpdate(input UpdateTaskInput) (task.Patch, error) {
	input.Title = trimmed(input.Title)
	if err := checkStruct(s.validate, input); err != nil {
		return task.Patch{}, err
	}

	patch := task.Patch{
		Title:       input.Title,
		Description: input.Description,
	}
	if input.Status != nil {
		status := task.Status(*input.Status)
		patch.Status = &status
	}
	return patch, nil
}

// ValidateID проверяет формат id для текущего хранилища, не обращаясь к нему
func (s *TaskService) ValidateID(id string) error {
	if id == "" || !s.repo.ValidID(id) {
		return NewInvalidID()
	}
	return nil
}
