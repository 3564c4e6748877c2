package models

// TokenRequest представляє запит на отримання дійсного access token
type TokenRequest struct {
	UserID string `json:"user_id"`
}

// TokenResponse представляє відповідь з дійсним access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// CallbackRequest представляє параметри callback запиту від Spotify
type CallbackRequest struct {
	Code  string `form:"code"`
	State string `form:"state"`
	Error string `form:"error"`
}

// AuthorizeResponse представляє URL для початку авторизації Spotify
type AuthorizeResponse struct {
	AuthURL string `json:"auth_url"`
}

// ConnectionStatus представляє стан підключення Spotify для користувача
type ConnectionStatus struct {
	UserID    string `json:"user_id"`
	Connected bool   `json:"connected"`
}

// ErrorResponse представляє тіло відповіді з помилкою
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
