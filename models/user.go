package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is stored as-is in the users collection. Password always holds a bcrypt hash.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"password"`
	Photo    string             `bson:"photo" json:"photo"`
}

// Profile is the public view of a user returned by register and login.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

func (u User) Profile() Profile {
	return Profile{Name: u.Name, Email: u.Email, Photo: u.Photo}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Photo    string `json:"photo"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	User Profile `json:"user"`
}
