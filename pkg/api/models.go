package api

type RegisterRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
	Name     string `json:"Name"`
}

type RegisterResponse struct {
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

type LoginResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}

type UserInfo struct {
	Name  string `json:"Name"`
	Email string `json:"Email"`
}
