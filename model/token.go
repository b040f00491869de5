// file: model/token.go

package model

// TokenPair is returned by login and reissue.
type TokenPair struct {
	GrantType             string `json:"grant_type"`
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}
