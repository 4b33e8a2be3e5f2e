package service

// тело POST /tasks
type CreateTaskInput struct {
	Title       *string `json:"title" validate:"required,notblank"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitnil,taskstatus"`
}

// тело PUT /tasks/{id}, все поля необязательные
type UpdateTaskInput struct {
	Title       *string `json:"title" validate:"omitnil,notblank"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitnil,taskstatus"`
}
