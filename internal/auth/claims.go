package auth

// IdentityClaims are the claims carried by an access token: the bound
// identity's ID and email. Possession of a token with a valid signature
// is the sole authentication factor; the middleware trusts these claims
// without a store lookup.
type IdentityClaims struct {
	IdentityID string `json:"user_id"`
	Email      string `json:"email"`
	TokenID    string `json:"jti"`
}
