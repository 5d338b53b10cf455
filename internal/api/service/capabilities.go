package service

// Capabilities is the closed set of role flags for one request, resolved
// once from the access token and passed explicitly into services instead of
// being re-derived ad hoc at each call site.
type Capabilities struct {
	UserID  string
	Premium bool
	Creator bool
	Admin   bool
}

// CapabilitiesFromClaims folds the token payload into capability flags.
func CapabilitiesFromClaims(claims *Claims) Capabilities {
	return Capabilities{
		UserID:  claims.UserID,
		Premium: claims.Premium,
		Creator: claims.Role == "creator" || claims.Role == "admin",
		Admin:   claims.Role == "admin",
	}
}
