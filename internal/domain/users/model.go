package users

import "time"

type User struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	// Avatar — картинка в том виде, в каком её прислал клиент (data URL); пустая строка, если нет.
	Avatar       string
	TelegramID   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser — данные регистрации; пароль в открытом виде, хэшируется в Repo.Create.
type NewUser struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}
