package dto

// ProfileUpdateRequest payload. Only supplied fields are merged.
type ProfileUpdateRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
	Location  *string `json:"location"`
}

// ProfileResponse wraps the shared staff profile shape together with the
// shop context the portal displays alongside it.
type ProfileResponse struct {
	Staff    StaffProfile      `json:"staff"`
	Settings *SettingsResponse `json:"settings,omitempty"`
}

// SettingsResponse is the API shape of the global settings document.
type SettingsResponse struct {
	ShopName     string `json:"shop_name"`
	Currency     string `json:"currency"`
	OpeningHours string `json:"opening_hours"`
}
