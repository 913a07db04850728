package models

// CreateProjectRequest is the POST /projects body. Text fields are expected
// to be trimmed and tags normalized before validation.
type CreateProjectRequest struct {
	Title          string     `json:"title" validate:"required,min=5,max=100"`
	Description    string     `json:"description" validate:"required,min=20,max=2000"`
	Tags           []string   `json:"tags" validate:"required,min=1,max=10,unique,dive,required,max=50"`
	Visibility     Visibility `json:"visibility" validate:"required,oneof=public squad_only private"`
	Difficulty     Difficulty `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Status         string     `json:"status,omitempty" validate:"omitempty,max=50"`
	EstimatedHours *int       `json:"estimatedHours,omitempty" validate:"omitempty,gt=0"`
	ThumbnailURL   *string    `json:"thumbnailUrl,omitempty" validate:"omitempty,url"`
	SquadID        *string    `json:"squadId,omitempty"`
}

// UpdateProjectRequest is the PUT /projects/{id} body. Nil fields are left
// unchanged by the backend.
type UpdateProjectRequest struct {
	Title          *string     `json:"title,omitempty" validate:"omitempty,min=5,max=100"`
	Description    *string     `json:"description,omitempty" validate:"omitempty,min=20,max=2000"`
	Tags           []string    `json:"tags,omitempty" validate:"omitempty,min=1,max=10,unique,dive,required,max=50"`
	Visibility     *Visibility `json:"visibility,omitempty" validate:"omitempty,oneof=public squad_only private"`
	Difficulty     *Difficulty `json:"difficulty,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Status         *string     `json:"status,omitempty" validate:"omitempty,max=50"`
	EstimatedHours *int        `json:"estimatedHours,omitempty" validate:"omitempty,gt=0"`
	ThumbnailURL   *string     `json:"thumbnailUrl,omitempty" validate:"omitempty,url"`
}

// AddFileRequest is the POST /projects/{id}/files body.
type AddFileRequest struct {
	Filename    string  `json:"filename" validate:"required,max=255"`
	FileURL     string  `json:"fileUrl" validate:"required,url"`
	FileType    string  `json:"fileType" validate:"max=100"`
	FileSize    int64   `json:"fileSize" validate:"gte=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// AddUpdateRequest is the POST /projects/{id}/updates body.
type AddUpdateRequest struct {
	Title              string   `json:"title" validate:"required,max=200"`
	Content            string   `json:"content" validate:"required,max=2000"`
	ProgressPercentage *int     `json:"progressPercentage,omitempty" validate:"omitempty,min=0,max=100"`
	HoursLogged        *int     `json:"hoursLogged,omitempty" validate:"omitempty,min=0"`
	Attachments        []string `json:"attachments,omitempty" validate:"omitempty,dive,required"`
}
