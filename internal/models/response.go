package models

// Envelope is the JSON body the backend sends for every route. Only the
// key that belongs to the route is set.
type Envelope struct {
	Success     bool           `json:"success"`
	Projects    []Project      `json:"projects,omitempty"`
	Project     *Project       `json:"project,omitempty"`
	File        *ProjectFile   `json:"file,omitempty"`
	Update      *ProjectUpdate `json:"update,omitempty"`
	Pagination  *Pagination    `json:"pagination,omitempty"`
	Liked       *bool          `json:"liked,omitempty"`
	RepostCount *int           `json:"repostCount,omitempty"`
	Message     string         `json:"message,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// ProjectListResponse is the GET /projects body. Projects is never null.
type ProjectListResponse struct {
	Success    bool        `json:"success"`
	Projects   []Project   `json:"projects"`
	Pagination *Pagination `json:"pagination"`
}

// ProjectResponse is the body of the routes that return one project.
type ProjectResponse struct {
	Success bool     `json:"success"`
	Project *Project `json:"project"`
	Message string   `json:"message,omitempty"`
}

// Result is the normalized client-side shape: the route's payload is
// moved under Data.
type Result[T any] struct {
	Success    bool        `json:"success"`
	Data       T           `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
	Message    string      `json:"message,omitempty"`
}

type MessageResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type LikeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Liked   bool   `json:"liked"`
	Error   string `json:"error,omitempty"`
}

type RepostResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	RepostCount int    `json:"repostCount"`
	Error       string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
