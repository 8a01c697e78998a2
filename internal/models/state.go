package models

// GuestState is the per-chat conversation state of the storefront bot. It is
// serialized to JSON and kept in Redis (with an in-memory fallback), so a bot
// restart does not lose a half-finished search or form.
type GuestState struct {
	UserID     int64             `json:"user_id"`
	Step       string            `json:"step"`
	RoomNumber string            `json:"room_number,omitempty"`
	CheckIn    Date              `json:"check_in,omitempty"`
	CheckOut   Date              `json:"check_out,omitempty"`
	Form       map[string]string `json:"form,omitempty"`
	Page       int               `json:"page,omitempty"`
}

// SetField stores a collected form field, allocating the map lazily.
func (s *GuestState) SetField(key, value string) {
	if s.Form == nil {
		s.Form = make(map[string]string)
	}
	s.Form[key] = value
}

// Field returns a collected form field or "".
func (s *GuestState) Field(key string) string {
	if s.Form == nil {
		return ""
	}
	return s.Form[key]
}
