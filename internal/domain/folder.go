package domain

import "time"

// Folder groups products of one user. Names are unique per user.
type Folder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductFolder links a product to a folder.
type ProductFolder struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	FolderID  string    `json:"folder_id"`
	CreatedAt time.Time `json:"created_at"`
}
