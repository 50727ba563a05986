package model

// Employee is a warehouse worker from the User sheet. The badge ID doubles
// as the login identifier scanned from the employee card.
type Employee struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}
