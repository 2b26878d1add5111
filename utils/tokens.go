package utils

// AccessToken claims carried by every authenticated request. Tokens are minted
// by the identity service; this core only verifies them. ID is the landlord's
// user id; ownership checks compare it against Property.LandlordID.
type AccessToken struct {
	ID   uint   `json:"ID"`
	Role string `json:"role"`
}
