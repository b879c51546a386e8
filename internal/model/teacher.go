package model

import "time"

// Teacher represents a teacher user with authoring and reporting access.
type Teacher struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TeacherLoginRequest is the payload for teacher authentication.
type TeacherLoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// TeacherLoginResponse is returned after successful teacher login.
type TeacherLoginResponse struct {
	Token   string  `json:"token"`
	Teacher Teacher `json:"teacher"`
}
