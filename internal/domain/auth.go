package domain

// LoginResponse carries the bearer token under whichever field the
// gateway build uses; first non-empty wins.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
	JWT         string `json:"jwt"`
}

// BearerToken returns the first non-empty token field, or "".
func (r LoginResponse) BearerToken() string {
	switch {
	case r.AccessToken != "":
		return r.AccessToken
	case r.Token != "":
		return r.Token
	default:
		return r.JWT
	}
}
