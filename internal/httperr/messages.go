package httperr

var messages = map[string]string{
	"time_conflict":         "The selected time is no longer available. Please choose another slot.",
	"invalid_state":         "The appointment can no longer be changed.",
	"invalid_date":          "Invalid date. Use YYYY-MM-DD.",
	"invalid_time":          "Invalid time. Use HH:MM.",
	"invalid_interval":      "Start must be before end.",
	"missing_contact":       "Email, first name, last name and phone are required.",
	"invalid_email":         "Invalid email address.",
	"contact_too_long":      "Names and email are limited to 100 characters, phone to 20, address and notes to 255.",
	"missing_address":       "An address is required for at-home services.",
	"too_soon":              "The selected time is too close to now.",
	"slot_unavailable":      "The selected time is not available.",
	"outside_working_hours": "The selected time is outside working hours.",
	"invalid_duration":      "The service has an invalid duration.",
	"staff_not_eligible":    "The selected professional does not offer this service.",
	"forbidden":             "You are not allowed to perform this action.",
	"block_not_editable":    "This schedule block can only be changed by the business owner.",
	"block_spans_days":      "A working-hours block must start and end on the same day.",
	"invalid_recurrence":    "Invalid weekly recurrence.",
}

func messageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}
