package models

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyResetTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	PhotoURL  *string `json:"photo_url"`
	Bio       *string `json:"bio"`
	Password  *string `json:"password"`
}

type CreateUserRequest struct {
	FirstName string   `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string   `json:"last_name" binding:"required,min=1,max=100"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=6"`
	Role      UserRole `json:"role,omitempty"`
}

type UpdateUserRequest struct {
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	PhotoURL  *string   `json:"photo_url"`
	Bio       *string   `json:"bio"`
	Role      *UserRole `json:"role"`
	Active    *bool     `json:"active"`
	Password  *string   `json:"password"`
}

type CreateArticleRequest struct {
	Title                string          `json:"title" binding:"required,min=1,max=255"`
	Description          string          `json:"description"`
	Content              string          `json:"content" binding:"required"`
	Category             ArticleCategory `json:"category" binding:"required"`
	Status               ArticleStatus   `json:"status"`
	Location             string          `json:"location"`
	Capacity             *int            `json:"capacity"`
	RegistrationRequired bool            `json:"registration_required"`
	Tags                 []string        `json:"tags"`
}

type UpdateArticleRequest struct {
	Title                *string          `json:"title"`
	Description          *string          `json:"description"`
	Content              *string          `json:"content"`
	Category             *ArticleCategory `json:"category"`
	Status               *ArticleStatus   `json:"status"`
	Location             *string          `json:"location"`
	Capacity             *int             `json:"capacity"`
	RegistrationRequired *bool            `json:"registration_required"`
	Tags                 *[]string        `json:"tags"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"max=255"`
	Message string `json:"message" binding:"required,min=1"`
}

type ArticleListParams struct {
	Category  string `form:"category"`
	Status    string `form:"status"`
	AuthorID  uint   `form:"author_id"`
	TagID     uint   `form:"tag_id"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
}

type UserListParams struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}
