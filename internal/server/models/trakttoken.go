package models

// TraktToken is the per-user Trakt OAuth token set. At most one row exists
// per user; repeated exchanges overwrite the row in place.
//
// CreatedAt and ExpiresIn are the provider-issued values: a Unix timestamp
// of token issuance and a lifetime in seconds.
type TraktToken struct {
	ID           int64
	UserID       int64
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresIn    int64
	CreatedAt    int64
}
